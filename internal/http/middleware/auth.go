package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
	"github.com/christian-bayata/user-auth-api/internal/sysutil"
)

const (
	// TokenCookie is the cookie carrying the access token.
	TokenCookie = "token"

	ctxUserID = "userID"
	ctxUser   = "user"
)

// TokenParser verifies an access token and returns its subject.
type TokenParser interface {
	Parse(raw string) (string, error)
}

// UserLoader loads the user a token refers to. A deleted user must be
// reported as domain.ErrUserNoLongerExists.
type UserLoader interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

// RequireAuth authenticates the request from the "token" cookie or, failing
// that, an "Authorization: Bearer" header.
//
//	no token              -> 401 TokenNotProvided
//	bad or expired token  -> 401 InvalidToken
//	user deleted          -> 404 UserNoLongerExists
//
// On success the user is stored under "user", its ID under "userID", and the
// request logger gains a user_id field.
func RequireAuth(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sysutil.FirstNonEmpty(cookieToken(c), bearerToken(c))
		if raw == "" {
			abortErr(c, domain.ErrTokenNotProvided)
			return
		}
		uid, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abortErr(c, domain.ErrInvalidToken)
			return
		}
		u, err := users.Get(c.Request.Context(), uid)
		if err != nil {
			abortErr(c, err)
			return
		}

		c.Set(ctxUserID, u.ID)
		c.Set(ctxUser, u)
		setLogger(c, LoggerFrom(c).With().Str("user_id", u.ID).Logger())
		c.Next()
	}
}

// RequireRole admits only users holding one of roles. It must run after
// RequireAuth; without an authenticated user it answers 401
// NotAuthenticated, with the wrong role 403 PermissionDenied.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			abortErr(c, domain.ErrNotAuthenticated)
			return
		}
		if !u.HasRole(roles...) {
			abortErr(c, domain.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

func cookieToken(c *gin.Context) string {
	v, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return v
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// abortErr renders err through httperr.From. Catalog errors are counted by
// their code; anything else is logged and counted as internal.
func abortErr(c *gin.Context, err error) {
	var de domain.Error
	if errors.As(err, &de) {
		Abort(c, httperr.FromDomain(de), de.Kind.String())
		return
	}
	LoggerFrom(c).Error().Err(err).Msg("auth lookup failed")
	Abort(c, httperr.From(err), "internal")
}
