// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - CreateUser returns ErrDuplicate when the email is already taken.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique constraint violation (email already taken).
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation detects unique violations across drivers. glebarez/sqlite
// often returns plain-text errors; Postgres reports SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value") ||
		strings.Contains(low, "sqlstate 23505")
}

// NewUser describes the fields supplied when registering.
type NewUser struct {
	Name              string
	Email             string
	PasswordHash      string
	Role              domain.UserRole
	VerificationToken string
	TokenExpiresAt    time.Time
}

// CreateUser inserts a user with a fresh UUID. The email is lower-cased.
func CreateUser(ctx context.Context, db *gorm.DB, in NewUser) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     normalizeEmail(in.Email),
		Password:  in.PasswordHash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.VerificationToken != "" {
		tok := in.VerificationToken
		exp := in.TokenExpiresAt.UTC()
		u.VerificationToken = &tok
		u.TokenExpiresAt = &exp
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// GetUserByID fetches a user by primary key.
func GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email, case-insensitively.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByToken fetches the user holding the given verification/reset token.
// Expiry is the caller's concern.
func GetUserByToken(ctx context.Context, db *gorm.DB, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNotFound
	}
	var u domain.User
	if err := db.WithContext(ctx).Where("verification_token = ?", token).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// ListUsersPage returns a page of users, newest first.
//
// The caller is responsible for computing offset and limit (e.g., (batch-1)*limit).
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func updateUser(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserName sets the display name.
func UpdateUserName(ctx context.Context, db *gorm.DB, id, name string) error {
	return updateUser(ctx, db, id, map[string]any{"name": name})
}

// UpdateUserRole sets the role.
func UpdateUserRole(ctx context.Context, db *gorm.DB, id string, role domain.UserRole) error {
	return updateUser(ctx, db, id, map[string]any{"role": role})
}

// UpdateUserPassword replaces the password hash and consumes any pending
// verification/reset token.
func UpdateUserPassword(ctx context.Context, db *gorm.DB, id, hash string) error {
	return updateUser(ctx, db, id, map[string]any{
		"password":           hash,
		"verification_token": nil,
		"token_expires_at":   nil,
	})
}

// VerifyUser marks the user verified and clears the token.
func VerifyUser(ctx context.Context, db *gorm.DB, id string) error {
	return updateUser(ctx, db, id, map[string]any{
		"verified":           true,
		"verification_token": nil,
		"token_expires_at":   nil,
	})
}

// SetVerificationToken stores a single-use token valid until expiresAt.
func SetVerificationToken(ctx context.Context, db *gorm.DB, id, token string, expiresAt time.Time) error {
	return updateUser(ctx, db, id, map[string]any{
		"verification_token": token,
		"token_expires_at":   expiresAt.UTC(),
	})
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
