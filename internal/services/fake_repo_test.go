package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/repo"
)

// fakeUserRepo is an in-memory UserRepo.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int

	// forced errors
	createErr error
	getErr    error
	countErr  error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, _ *gorm.DB, in repo.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	for _, u := range r.users {
		if u.Email == email {
			return nil, repo.ErrDuplicate
		}
	}
	r.seq++
	now := time.Date(2025, 1, 1, 0, 0, r.seq, 0, time.UTC)
	u := &domain.User{
		ID: fmt.Sprintf("u%d", r.seq), Name: in.Name, Email: email,
		Password: in.PasswordHash, Role: in.Role, CreatedAt: now, UpdatedAt: now,
	}
	if in.VerificationToken != "" {
		tok, exp := in.VerificationToken, in.TokenExpiresAt
		u.VerificationToken, u.TokenExpiresAt = &tok, &exp
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) find(pred func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, _ *gorm.DB, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, _ *gorm.DB, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetUserByToken(_ context.Context, _ *gorm.DB, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return token != "" && u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (r *fakeUserRepo) CountUsers(context.Context, *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), r.countErr
}

func (r *fakeUserRepo) ListUsersPage(_ context.Context, _ *gorm.DB, offset, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeUserRepo) UsersStats(context.Context, *gorm.DB) (int64, *time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, nil, r.countErr
	}
	var maxAt *time.Time
	for _, u := range r.users {
		if maxAt == nil || u.UpdatedAt.After(*maxAt) {
			at := u.UpdatedAt
			maxAt = &at
		}
	}
	return int64(len(r.users)), maxAt, nil
}

func (r *fakeUserRepo) update(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(u)
	r.seq++
	u.UpdatedAt = time.Date(2025, 1, 1, 0, 0, r.seq, 0, time.UTC)
	return nil
}

func (r *fakeUserRepo) UpdateUserName(_ context.Context, _ *gorm.DB, id, name string) error {
	return r.update(id, func(u *domain.User) { u.Name = name })
}

func (r *fakeUserRepo) UpdateUserRole(_ context.Context, _ *gorm.DB, id string, role domain.UserRole) error {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *fakeUserRepo) UpdateUserPassword(_ context.Context, _ *gorm.DB, id, hash string) error {
	return r.update(id, func(u *domain.User) {
		u.Password = hash
		u.VerificationToken, u.TokenExpiresAt = nil, nil
	})
}

func (r *fakeUserRepo) VerifyUser(_ context.Context, _ *gorm.DB, id string) error {
	return r.update(id, func(u *domain.User) {
		u.Verified = true
		u.VerificationToken, u.TokenExpiresAt = nil, nil
	})
}

func (r *fakeUserRepo) SetVerificationToken(_ context.Context, _ *gorm.DB, id, token string, exp time.Time) error {
	return r.update(id, func(u *domain.User) {
		u.VerificationToken, u.TokenExpiresAt = &token, &exp
	})
}

// fakeTokens returns "tok:<id>".
type fakeTokens struct{ err error }

func (f fakeTokens) Create(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "tok:" + userID, nil
}

// recordingMailer captures sent links.
type recordingMailer struct {
	mu           sync.Mutex
	verification []string
	reset        []string
	err          error
}

func (m *recordingMailer) SendVerification(_ context.Context, _ *domain.User, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verification = append(m.verification, link)
	return m.err
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _ *domain.User, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = append(m.reset, link)
	return m.err
}

var errBoom = errors.New("boom")
