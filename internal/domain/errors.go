// Package domain defines the user model and the closed catalog of business
// failures shared by the service, middleware and HTTP layers.
//
// This file holds the Domain Error Catalog. Every business-level failure the
// service can report is one ErrorKind; there is no free-form domain error.
// Translation into HTTP status codes lives in internal/http/httperr.
//
// Conventions:
//   - Each kind renders to one fixed message. Only PasswordTooLong
//     interpolates a value (the configured maximum length).
//   - Error is a comparable value: two errors of the same kind (and the same
//     MaxLength) are equal under == and errors.Is.
//   - Switches over ErrorKind list every kind; the exhaustive linter
//     (.golangci.yml) rejects a switch that misses one.
package domain

import "fmt"

// ErrorKind enumerates the business failure reasons.
type ErrorKind uint8

const (
	KindEmptyPassword ErrorKind = iota + 1
	KindPasswordTooLong
	KindHashingError
	KindInvalidToken
	KindServerError
	KindWrongCredentials
	KindEmailAlreadyExists
	KindUserNoLongerExists
	KindTokenNotProvided
	KindPermissionDenied
	KindNotAuthenticated
	KindInvalidHashFormat
)

// Kinds returns every ErrorKind in declaration order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindEmptyPassword,
		KindPasswordTooLong,
		KindHashingError,
		KindInvalidToken,
		KindServerError,
		KindWrongCredentials,
		KindEmailAlreadyExists,
		KindUserNoLongerExists,
		KindTokenNotProvided,
		KindPermissionDenied,
		KindNotAuthenticated,
		KindInvalidHashFormat,
	}
}

// String returns a stable snake_case code for logs and metric labels.
func (k ErrorKind) String() string {
	switch k {
	case KindEmptyPassword:
		return "empty_password"
	case KindPasswordTooLong:
		return "password_too_long"
	case KindHashingError:
		return "hashing_error"
	case KindInvalidToken:
		return "invalid_token"
	case KindServerError:
		return "server_error"
	case KindWrongCredentials:
		return "wrong_credentials"
	case KindEmailAlreadyExists:
		return "email_already_exists"
	case KindUserNoLongerExists:
		return "user_no_longer_exists"
	case KindTokenNotProvided:
		return "token_not_provided"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindInvalidHashFormat:
		return "invalid_hash_format"
	}
	return fmt.Sprintf("error_kind(%d)", uint8(k))
}

// Error is a catalog failure. MaxLength is only meaningful for
// KindPasswordTooLong and is zero otherwise.
type Error struct {
	Kind      ErrorKind
	MaxLength int
}

// Error renders the fixed message for the kind.
func (e Error) Error() string {
	switch e.Kind {
	case KindEmptyPassword:
		return "Password cannot be empty"
	case KindPasswordTooLong:
		return fmt.Sprintf("Password exceeded max length of %d", e.MaxLength)
	case KindHashingError:
		return "Error hashing password"
	case KindInvalidToken:
		return "Invalid token"
	case KindServerError:
		return "Internal server error"
	case KindWrongCredentials:
		return "Wrong credentials"
	case KindEmailAlreadyExists:
		return "Email already exists"
	case KindUserNoLongerExists:
		return "User no longer exists"
	case KindTokenNotProvided:
		return "Token not provided"
	case KindPermissionDenied:
		return "Permission denied"
	case KindNotAuthenticated:
		return "User not authenticated"
	case KindInvalidHashFormat:
		return "Invalid password hash format"
	}
	// Only reachable for an ErrorKind built outside the declared set.
	return "Internal server error"
}

// Catalog sentinels. Compare with errors.Is or ==.
var (
	ErrEmptyPassword      = Error{Kind: KindEmptyPassword}
	ErrHashingError       = Error{Kind: KindHashingError}
	ErrInvalidToken       = Error{Kind: KindInvalidToken}
	ErrServerError        = Error{Kind: KindServerError}
	ErrWrongCredentials   = Error{Kind: KindWrongCredentials}
	ErrEmailAlreadyExists = Error{Kind: KindEmailAlreadyExists}
	ErrUserNoLongerExists = Error{Kind: KindUserNoLongerExists}
	ErrTokenNotProvided   = Error{Kind: KindTokenNotProvided}
	ErrPermissionDenied   = Error{Kind: KindPermissionDenied}
	ErrNotAuthenticated   = Error{Kind: KindNotAuthenticated}
	ErrInvalidHashFormat  = Error{Kind: KindInvalidHashFormat}
)

// PasswordTooLong reports a password longer than max bytes.
func PasswordTooLong(max int) Error {
	return Error{Kind: KindPasswordTooLong, MaxLength: max}
}
