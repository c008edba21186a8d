package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/dto"
	"github.com/christian-bayata/user-auth-api/internal/http/middleware"
)

//
// Service contracts (context-aware)
//

// AuthService covers the account flows that do not need a session.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	Register(ctx context.Context, in dto.RegisterUser) (*domain.User, error)
	// Login returns a signed access token.
	Login(ctx context.Context, in dto.LoginUser) (string, error)
	VerifyEmail(ctx context.Context, q dto.VerifyEmailQuery) error
	ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// UserService covers operations on existing accounts.
type UserService interface {
	// List returns one page of users and the total user count.
	List(ctx context.Context, q dto.RequestQuery) ([]domain.User, int64, error)
	// Stats returns the user count and latest UpdatedAt, used for the
	// listing's ETag.
	Stats(ctx context.Context) (int64, *time.Time, error)
	UpdateName(ctx context.Context, id string, in dto.NameUpdate) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, in dto.RoleUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, in dto.UserUpdatePassword) error
}

// CookieOptions controls the access-token cookie set on login.
type CookieOptions struct {
	MaxAge time.Duration // should match the token lifetime
	Secure bool
	Path   string // defaults to "/"
}

//
// Handler wiring
//

// Handlers groups the auth and user endpoints.
type Handlers struct {
	auth   AuthService
	users  UserService
	cookie CookieOptions
}

// New constructs Handlers bound to the given services.
func New(auth AuthService, users UserService, cookie CookieOptions) *Handlers {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Handlers{auth: auth, users: users, cookie: cookie}
}

// setTokenCookie writes the access-token cookie; an empty value with
// maxAge < 0 deletes it.
func (h *Handlers) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}

// currentUser returns the authenticated user or aborts with 401.
func currentUser(c *gin.Context) (*domain.User, bool) {
	u, found := middleware.CurrentUser(c)
	if !found {
		fail(c, domain.ErrNotAuthenticated)
	}
	return u, found
}
