// Package token issues and verifies the HS256 access tokens used for
// authentication. Verification failures of any sort are reported as
// domain.ErrInvalidToken.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// Manager signs and parses tokens with a shared secret.
type Manager struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewManager returns a Manager. maxAge must be positive.
func NewManager(secret string, maxAge time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: empty secret")
	}
	if maxAge <= 0 {
		return nil, errors.New("token: maxAge must be > 0")
	}
	return &Manager{secret: []byte(secret), maxAge: maxAge, now: time.Now}, nil
}

// MaxAge is the lifetime of issued tokens.
func (m *Manager) MaxAge() time.Duration { return m.maxAge }

// Create returns a signed token whose subject is userID.
func (m *Manager) Create(userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrServerError
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", domain.ErrServerError
	}
	return s, nil
}

// Parse verifies raw and returns its subject.
func (m *Manager) Parse(raw string) (string, error) {
	if raw == "" {
		return "", domain.ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
