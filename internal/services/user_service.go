// Package services – UserService
//
// This file implements the UserService, which manages an authenticated
// user's profile (name, password) and the admin-only operations (listing,
// role changes). It also declares the UserRepo contract shared with
// AuthService.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/dto"
	"github.com/christian-bayata/user-auth-api/internal/password"
	"github.com/christian-bayata/user-auth-api/internal/repo"
	"github.com/christian-bayata/user-auth-api/internal/utils"
)

// UserRepo defines the repository contract required by the services.
// Implementations are responsible for persistence of users.
type UserRepo interface {
	// CreateUser inserts a user; repo.ErrDuplicate on a taken email.
	CreateUser(ctx context.Context, db *gorm.DB, in repo.NewUser) (*domain.User, error)

	GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	GetUserByToken(ctx context.Context, db *gorm.DB, token string) (*domain.User, error)

	// CountUsers returns the total number of users for pagination.
	CountUsers(ctx context.Context, db *gorm.DB) (int64, error)
	// ListUsersPage returns a page of users, newest first.
	ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error)
	// UsersStats returns the user count and the latest UpdatedAt (nil when empty).
	UsersStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)

	UpdateUserName(ctx context.Context, db *gorm.DB, id, name string) error
	UpdateUserRole(ctx context.Context, db *gorm.DB, id string, role domain.UserRole) error
	UpdateUserPassword(ctx context.Context, db *gorm.DB, id, hash string) error
	VerifyUser(ctx context.Context, db *gorm.DB, id string) error
	SetVerificationToken(ctx context.Context, db *gorm.DB, id, token string, expiresAt time.Time) error
}

// UserService provides profile and administration operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo

	// NameMaxLen caps stored names by rune length. Requests over the limit
	// are rejected by the DTO; normalization output is clipped here.
	NameMaxLen int
}

// NewUserService constructs a UserService with default limits.
func NewUserService(db *gorm.DB, r UserRepo) *UserService {
	return &UserService{DB: db, Repo: r, NameMaxLen: dto.MaxNameLength}
}

// Get returns the user with id, or ErrUserNoLongerExists.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetUserByID(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNoLongerExists
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns one page of users and the total user count.
func (s *UserService) List(ctx context.Context, q dto.RequestQuery) ([]domain.User, int64, error) {
	batch, size := q.Pagination()
	offset, limit := utils.Page(batch, size, dto.DefaultLimit, dto.MaxLimit)

	total, err := s.Repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 || int64(offset) >= total {
		return []domain.User{}, total, nil
	}

	items, err := s.Repo.ListUsersPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return items, total, nil
}

// Stats returns the user count and the latest modification time, for
// conditional responses on the listing.
func (s *UserService) Stats(ctx context.Context) (int64, *time.Time, error) {
	count, maxAt, err := s.Repo.UsersStats(ctx, s.DB)
	if err != nil {
		return 0, nil, fmt.Errorf("user stats: %w", err)
	}
	return count, maxAt, nil
}

// UpdateName stores a normalized name for id and returns the updated user.
func (s *UserService) UpdateName(ctx context.Context, id string, in dto.NameUpdate) (*domain.User, error) {
	name := clipRunes(normalizeName(in.Name), s.NameMaxLen)
	if err := s.Repo.UpdateUserName(ctx, s.DB, id, name); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNoLongerExists
		}
		return nil, fmt.Errorf("update name: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdateRole assigns in.Role to the user with id.
func (s *UserService) UpdateRole(ctx context.Context, id string, in dto.RoleUpdate) (*domain.User, error) {
	if err := s.Repo.UpdateUserRole(ctx, s.DB, id, in.Role); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNoLongerExists
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdatePassword replaces the password after checking the old one. A wrong
// old password is ErrWrongCredentials.
func (s *UserService) UpdatePassword(ctx context.Context, id string, in dto.UserUpdatePassword) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := password.Compare(in.OldPassword, u.Password)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrWrongCredentials
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUserPassword(ctx, s.DB, id, hash); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNoLongerExists
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// clipRunes truncates s to at most n runes. n <= 0 disables the cap.
func clipRunes(s string, n int) string {
	if n > 0 {
		if r := []rune(s); len(r) > n {
			return string(r[:n])
		}
	}
	return s
}

// normalizeName applies Unicode NFC, trims, and collapses inner whitespace.
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
