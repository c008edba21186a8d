package services

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendVerification(ctx context.Context, u *domain.User, link string) error
	SendPasswordReset(ctx context.Context, u *domain.User, link string) error
}

// LogMailer writes each email as a log line instead of sending it. It is
// the default Mailer for local development.
//
// The info line carries the link with its token masked. The usable link is
// only written at debug level.
type LogMailer struct {
	Logger zerolog.Logger
}

// SendVerification logs the verification link.
func (m LogMailer) SendVerification(_ context.Context, u *domain.User, link string) error {
	m.log("verification", u, link)
	return nil
}

// SendPasswordReset logs the reset link.
func (m LogMailer) SendPasswordReset(_ context.Context, u *domain.User, link string) error {
	m.log("password_reset", u, link)
	return nil
}

func (m LogMailer) log(kind string, u *domain.User, link string) {
	m.Logger.Info().
		Str("mail", kind).
		Str("user_id", u.ID).
		Str("to", u.Email).
		Str("link", maskToken(link)).
		Msg("mail queued")
	m.Logger.Debug().
		Str("mail", kind).
		Str("user_id", u.ID).
		Str("link", link).
		Msg("mail link")
}

// maskToken replaces the value of the token query parameter. Links that do
// not parse are masked whole.
func maskToken(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "[REDACTED]"
	}
	q := u.Query()
	if !q.Has("token") {
		return link
	}
	q.Set("token", "[REDACTED]")
	u.RawQuery = q.Encode()
	return u.String()
}
