// Package services defines the business logic for user accounts:
// registration, login, email verification, password reset, and profile and
// role management.
//
// Services speak the domain error catalog. Predictable failures (unknown
// user, duplicate email, bad credentials, expired token) are returned as
// domain.Error values so handlers can render them through httperr without
// inspecting messages. Unexpected persistence failures are wrapped with
// context and surface to clients as a generic 500.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/repo"
)

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate detects unique-constraint violations, including drivers that
// do not map to repo.ErrDuplicate or gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, repo.ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
