// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, authentication, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Every failure, including 404/405/413/429, leaves as the same envelope
//   - Deterministic router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/docs"
	"github.com/christian-bayata/user-auth-api/internal/config"
	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/http/handlers"
	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
	"github.com/christian-bayata/user-auth-api/internal/http/middleware"
	"github.com/christian-bayata/user-auth-api/internal/repo"
	"github.com/christian-bayata/user-auth-api/internal/services"
	"github.com/christian-bayata/user-auth-api/internal/token"
)

// Fallback messages.
const (
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// userRepoShim adapts the repository free functions to the services.UserRepo
// interface expected by the services. This keeps services decoupled from the
// concrete repo package while reusing existing functions.
type userRepoShim struct{}

func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, in repo.NewUser) (*domain.User, error) {
	return repo.CreateUser(ctx, db, in)
}

func (userRepoShim) GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUserByID(ctx, db, id)
}

func (userRepoShim) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

func (userRepoShim) GetUserByToken(ctx context.Context, db *gorm.DB, token string) (*domain.User, error) {
	return repo.GetUserByToken(ctx, db, token)
}

func (userRepoShim) CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountUsers(ctx, db)
}

func (userRepoShim) ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	return repo.ListUsersPage(ctx, db, offset, limit)
}

func (userRepoShim) UsersStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.UsersStats(ctx, db)
}

func (userRepoShim) UpdateUserName(ctx context.Context, db *gorm.DB, id, name string) error {
	return repo.UpdateUserName(ctx, db, id, name)
}

func (userRepoShim) UpdateUserRole(ctx context.Context, db *gorm.DB, id string, role domain.UserRole) error {
	return repo.UpdateUserRole(ctx, db, id, role)
}

func (userRepoShim) UpdateUserPassword(ctx context.Context, db *gorm.DB, id, hash string) error {
	return repo.UpdateUserPassword(ctx, db, id, hash)
}

func (userRepoShim) VerifyUser(ctx context.Context, db *gorm.DB, id string) error {
	return repo.VerifyUser(ctx, db, id)
}

func (userRepoShim) SetVerificationToken(ctx context.Context, db *gorm.DB, id, token string, expiresAt time.Time) error {
	return repo.SetVerificationToken(ctx, db, id, token, expiresAt)
}

// Deps are the collaborators RegisterRoutes cannot build from config alone.
type Deps struct {
	Tokens *token.Manager
	Mailer services.Mailer
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// compression, CORS and security headers, health and metrics endpoints, and
// then mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger (+ RedactingLogger header dump at debug level)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. Compression
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logs with query scrubbing
	r.Use(middleware.Logger())
	if cfg.LogLevel == "debug" {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	}

	// 4) Panic recovery to the JSON envelope
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP. Identity is not known yet
	// at this point; authenticated routes add a per-user bucket below.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 8) Response compression (metrics scrapes stay plain)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 9) CORS posture
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, httperr.NotFound(MsgRouteNotFound))
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, httperr.New(MsgMethodNotAllowed, http.StatusMethodNotAllowed))
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	userSvc := services.NewUserService(db, userRepoShim{})
	authSvc := services.NewAuthService(db, userRepoShim{}, deps.Tokens, deps.Mailer,
		cfg.AppURL, cfg.VerificationTTL, cfg.ResetTTL)
	h := handlers.New(authSvc, userSvc, handlers.CookieOptions{
		MaxAge: deps.Tokens.MaxAge(),
		Secure: cfg.CookieSecure,
	})

	requireAuth := middleware.RequireAuth(deps.Tokens, userSvc)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Credential endpoints get a tighter per-IP bucket on top of the global one.
	strict := middleware.NewRateLimiter(cfg.RateRPS/2, max(cfg.RateBurst/2, 1), middleware.KeyByIP()).Handler()
	// Runs after requireAuth, so the bucket follows the account across IPs.
	perUser := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).Handler()

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		auth := api.Group("/auth")
		auth.POST("/register", strict, h.Register)
		auth.POST("/login", strict, h.Login)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/verify", h.VerifyEmail)
		auth.POST("/forgot-password", strict, h.ForgotPassword)
		auth.POST("/reset-password", strict, h.ResetPassword)

		users := api.Group("/users", requireAuth, perUser)
		users.GET("", adminOnly, h.ListUsers)
		users.GET("/me", h.Me)
		users.PUT("/me/name", h.UpdateName)
		users.PUT("/me/password", h.UpdatePassword)
		users.PUT("/:id/role", adminOnly, h.UpdateRole)
	}
}

// corsMiddleware returns the CORS chain. With no configured origins every
// origin is allowed without credentials; otherwise listed origins are echoed
// and may send the token cookie.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		base.AllowCredentials = false // must remain false with AllowAllOrigins
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	base.AllowCredentials = true
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// make the JSON binders fail with 413.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
