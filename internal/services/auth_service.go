// Package services – AuthService
//
// This file implements the AuthService: registration with an email
// verification token, credential login, email verification, and the
// forgot/reset password flow. Verification and reset share the user's
// single-use token column; consuming either clears it.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/dto"
	"github.com/christian-bayata/user-auth-api/internal/password"
	"github.com/christian-bayata/user-auth-api/internal/repo"
)

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Create(userID string) (string, error)
}

// AuthService implements the unauthenticated account flows.
type AuthService struct {
	DB     *gorm.DB
	Repo   UserRepo
	Tokens TokenIssuer
	Mailer Mailer

	// AppURL prefixes the links placed in emails, e.g. "http://localhost:8080/api/v1".
	AppURL string
	// VerificationTTL bounds the lifetime of the email verification token.
	VerificationTTL time.Duration
	// ResetTTL bounds the lifetime of a password reset token.
	ResetTTL time.Duration

	now      func() time.Time
	newToken func() string
}

// NewAuthService constructs an AuthService. Zero TTLs fall back to 24h for
// verification and 30m for reset.
func NewAuthService(db *gorm.DB, r UserRepo, tokens TokenIssuer, mailer Mailer, appURL string, verificationTTL, resetTTL time.Duration) *AuthService {
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &AuthService{
		DB:              db,
		Repo:            r,
		Tokens:          tokens,
		Mailer:          mailer,
		AppURL:          strings.TrimRight(appURL, "/"),
		VerificationTTL: verificationTTL,
		ResetTTL:        resetTTL,
		now:             func() time.Time { return time.Now().UTC() },
		newToken:        uuid.NewString,
	}
}

// Register creates an unverified user and mails the verification link.
// A taken email is ErrEmailAlreadyExists. Mail delivery failures are logged
// and do not fail the registration.
func (s *AuthService) Register(ctx context.Context, in dto.RegisterUser) (*domain.User, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	tok := s.newToken()
	u, err := s.Repo.CreateUser(ctx, s.DB, repo.NewUser{
		Name:              clipRunes(normalizeName(in.Name), dto.MaxNameLength),
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              domain.RoleUser,
		VerificationToken: tok,
		TokenExpiresAt:    s.now().Add(s.VerificationTTL),
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.Mailer.SendVerification(ctx, u, s.link("/auth/verify", tok)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("verification mail failed")
	}
	return u, nil
}

// Login checks credentials and returns a signed access token. Unknown
// emails and wrong passwords both yield ErrWrongCredentials.
func (s *AuthService) Login(ctx context.Context, in dto.LoginUser) (string, error) {
	u, err := s.Repo.GetUserByEmail(ctx, s.DB, in.Email)
	if err != nil {
		if isNotFound(err) {
			return "", domain.ErrWrongCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	ok, err := password.Compare(in.Password, u.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrWrongCredentials
	}
	return s.Tokens.Create(u.ID)
}

// VerifyEmail consumes a verification token. Unknown or expired tokens are
// ErrInvalidToken.
func (s *AuthService) VerifyEmail(ctx context.Context, q dto.VerifyEmailQuery) error {
	u, err := s.userByLiveToken(ctx, q.Token)
	if err != nil {
		return err
	}
	if err := s.Repo.VerifyUser(ctx, s.DB, u.ID); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNoLongerExists
		}
		return fmt.Errorf("verify user: %w", err)
	}
	return nil
}

// ForgotPassword issues a reset token and mails it. An unknown email
// succeeds silently so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	u, err := s.Repo.GetUserByEmail(ctx, s.DB, in.Email)
	if err != nil {
		if isNotFound(err) {
			zerolog.Ctx(ctx).Info().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	tok := s.newToken()
	if err := s.Repo.SetVerificationToken(ctx, s.DB, u.ID, tok, s.now().Add(s.ResetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.Mailer.SendPasswordReset(ctx, u, s.link("/auth/reset-password", tok)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	u, err := s.userByLiveToken(ctx, in.Token)
	if err != nil {
		return err
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUserPassword(ctx, s.DB, u.ID, hash); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNoLongerExists
		}
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *AuthService) userByLiveToken(ctx context.Context, tok string) (*domain.User, error) {
	u, err := s.Repo.GetUserByToken(ctx, s.DB, tok)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	if u.TokenExpiresAt == nil || !s.now().Before(*u.TokenExpiresAt) {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

func (s *AuthService) link(path, tok string) string {
	return s.AppURL + path + "?token=" + url.QueryEscape(tok)
}
