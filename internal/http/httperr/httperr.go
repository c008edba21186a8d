// Package httperr maps every failure the service can produce to an HTTP
// status and the single error envelope written on the wire:
//
//	HTTP/1.1 409 Conflict
//	{ "status": "fail", "message": "Email already exists" }
//
// The envelope's status field is always the literal "fail"; clients tell
// failure classes apart by the HTTP status code. Everything in this package
// is pure and safe for concurrent use.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// StatusFail is the envelope status for every error response.
const StatusFail = "fail"

// Envelope is the JSON body of every error response.
type Envelope struct {
	Status  string `json:"status" example:"fail"`
	Message string `json:"message" example:"Email already exists"`
}

// HTTPError is a message bound to an HTTP status code.
type HTTPError struct {
	Message string
	Status  int
}

// Error implements error.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HttpError: message: %s, status: %d", e.Message, e.Status)
}

// Envelope returns the wire body for e.
func (e HTTPError) Envelope() Envelope {
	return Envelope{Status: StatusFail, Message: e.Message}
}

// New binds message to status.
func New(message string, status int) HTTPError {
	return HTTPError{Message: message, Status: status}
}

// ServerError returns a 500.
func ServerError(message string) HTTPError { return New(message, http.StatusInternalServerError) }

// BadRequest returns a 400.
func BadRequest(message string) HTTPError { return New(message, http.StatusBadRequest) }

// UniqueConstraintViolation returns a 409.
func UniqueConstraintViolation(message string) HTTPError { return New(message, http.StatusConflict) }

// Unauthorized returns a 401.
func Unauthorized(message string) HTTPError { return New(message, http.StatusUnauthorized) }

// Forbidden returns a 403.
func Forbidden(message string) HTTPError { return New(message, http.StatusForbidden) }

// NotFound returns a 404.
func NotFound(message string) HTTPError { return New(message, http.StatusNotFound) }

// TooManyRequests returns a 429.
func TooManyRequests(message string) HTTPError { return New(message, http.StatusTooManyRequests) }

// StatusFor returns the canonical HTTP status of a catalog kind.
func StatusFor(k domain.ErrorKind) int {
	switch k {
	case domain.KindEmptyPassword, domain.KindPasswordTooLong:
		return http.StatusBadRequest
	case domain.KindInvalidToken, domain.KindTokenNotProvided,
		domain.KindWrongCredentials, domain.KindNotAuthenticated:
		return http.StatusUnauthorized
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindUserNoLongerExists:
		return http.StatusNotFound
	case domain.KindEmailAlreadyExists:
		return http.StatusConflict
	case domain.KindServerError, domain.KindHashingError, domain.KindInvalidHashFormat:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// FromDomain converts a catalog error using the fixed status table.
func FromDomain(e domain.Error) HTTPError {
	return New(e.Error(), StatusFor(e.Kind))
}

// Coder is implemented by errors that already know their HTTP rendering,
// such as request DTO validation failures.
type Coder interface {
	HTTPError() HTTPError
}

// From classifies any error:
//   - HTTPError passes through unchanged;
//   - domain.Error goes through FromDomain;
//   - a Coder renders itself;
//   - anything else is a 500 with the generic server-error message, so
//     internal details never reach the client.
func From(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	var de domain.Error
	if errors.As(err, &de) {
		return FromDomain(de)
	}
	var c Coder
	if errors.As(err, &c) {
		return c.HTTPError()
	}
	return ServerError(domain.ErrServerError.Error())
}

// fallbackBody is only used if encoding the envelope ever fails.
var fallbackBody = []byte(`{"status":"fail","message":"Internal server error"}`)

// Render returns the status code and JSON body for e. It never fails: a
// status outside 100..599 is rendered as 500, and the message is written
// verbatim.
func Render(e HTTPError) (int, []byte) {
	status := e.Status
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	body, err := json.Marshal(e.Envelope())
	if err != nil {
		return http.StatusInternalServerError, fallbackBody
	}
	return status, body
}
