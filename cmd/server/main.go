// Command server runs the user account API.
//
// Startup order: .env → config → logger → database (+ migrations) →
// tracing → routes → HTTP server. SIGINT/SIGTERM trigger a graceful
// shutdown that drains in-flight requests and flushes pending spans.
//
//	@title						User Auth API
//	@version					1.0
//	@description				Account registration, login, email verification, password reset and user administration.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/christian-bayata/user-auth-api/internal/config"
	httpapi "github.com/christian-bayata/user-auth-api/internal/http"
	"github.com/christian-bayata/user-auth-api/internal/observability"
	"github.com/christian-bayata/user-auth-api/internal/repo"
	"github.com/christian-bayata/user-auth-api/internal/services"
	"github.com/christian-bayata/user-auth-api/internal/sysutil"
	"github.com/christian-bayata/user-auth-api/internal/token"
)

// version is set at build time with -ldflags "-X main.version=…".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, os.Stdout)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version, db)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.JWTMaxAge)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, httpapi.Deps{
		Tokens: tokens,
		Mailer: services.LogMailer{Logger: log.With().Str("component", "mailer").Logger()},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("base_path", cfg.APIBasePath).
			Bool("otel", cfg.OTEL.Enabled).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
