// Package password hashes and verifies user passwords with bcrypt. All
// failures are reported as catalog errors from internal/domain.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// MaxLength is the longest password accepted, in bytes. It stays below
// bcrypt's own 72 byte input limit so multi-byte passwords are rejected here
// instead of failing inside the hasher.
const MaxLength = 64

// cost is a var so tests can lower it.
var cost = bcrypt.DefaultCost

// Hash returns the bcrypt hash of plain.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", domain.ErrEmptyPassword
	}
	if len(plain) > MaxLength {
		return "", domain.PasswordTooLong(MaxLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", domain.ErrHashingError
	}
	return string(h), nil
}

// Compare reports whether plain matches hash. A mismatch is (false, nil);
// an unparsable hash is ErrInvalidHashFormat.
func Compare(plain, hash string) (bool, error) {
	if plain == "" {
		return false, domain.ErrEmptyPassword
	}
	if len(plain) > MaxLength {
		return false, domain.PasswordTooLong(MaxLength)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, domain.ErrInvalidHashFormat
	}
}
