package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

func newUserRepoDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("user_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, NewUser{Name: "N", Email: email, PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func TestCreateUser_Error_NoTable(t *testing.T) {
	db := newUserRepoDB(t, false)
	u, err := CreateUser(context.Background(), db, NewUser{Name: "a", Email: "a@b.co", PasswordHash: "h"})
	if err == nil || u != nil {
		t.Fatalf("expected error without table, got u=%v err=%v", u, err)
	}
	if errors.Is(err, ErrDuplicate) {
		t.Fatalf("missing table must not look like a duplicate")
	}
}

func TestCreateUser_PersistsAndDefaults(t *testing.T) {
	db := newUserRepoDB(t, true)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	u, err := CreateUser(ctx, db, NewUser{
		Name: "Ada", Email: "  Ada@Example.COM ", PasswordHash: "hash",
		VerificationToken: "tok-1", TokenExpiresAt: exp,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Email != "ada@example.com" || u.Role != domain.RoleUser || u.Verified {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := GetUserByEmail(ctx, db, "ADA@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetUserByEmail: got=%+v err=%v", got, err)
	}
	byTok, err := GetUserByToken(ctx, db, "tok-1")
	if err != nil || byTok.ID != u.ID || byTok.TokenExpiresAt == nil {
		t.Fatalf("GetUserByToken: got=%+v err=%v", byTok, err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	db := newUserRepoDB(t, true)
	mustCreateUser(t, db, "dup@example.com")
	_, err := CreateUser(context.Background(), db, NewUser{Name: "x", Email: "DUP@example.com", PasswordHash: "h"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetters_NotFound(t *testing.T) {
	db := newUserRepoDB(t, true)
	ctx := context.Background()
	if _, err := GetUserByID(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByID: %v", err)
	}
	if _, err := GetUserByEmail(ctx, db, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if _, err := GetUserByToken(ctx, db, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByToken empty: %v", err)
	}
	if _, err := GetUserByToken(ctx, db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByToken: %v", err)
	}
}

func TestListUsersPage_And_Count(t *testing.T) {
	db := newUserRepoDB(t, true)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustCreateUser(t, db, fmt.Sprintf("u%d@example.com", i))
		time.Sleep(2 * time.Millisecond)
	}

	total, err := CountUsers(ctx, db)
	if err != nil || total != 5 {
		t.Fatalf("CountUsers = %d, %v; want 5", total, err)
	}

	page1, err := ListUsersPage(ctx, db, 0, 2)
	if err != nil || len(page1) != 2 {
		t.Fatalf("page1: len=%d err=%v", len(page1), err)
	}
	if page1[0].Email != "u4@example.com" {
		t.Fatalf("expected newest first, got %s", page1[0].Email)
	}
	page3, err := ListUsersPage(ctx, db, 4, 2)
	if err != nil || len(page3) != 1 {
		t.Fatalf("page3: len=%d err=%v", len(page3), err)
	}
}

func TestUpdates(t *testing.T) {
	db := newUserRepoDB(t, true)
	ctx := context.Background()
	u := mustCreateUser(t, db, "up@example.com")

	if err := UpdateUserName(ctx, db, u.ID, "New Name"); err != nil {
		t.Fatalf("UpdateUserName: %v", err)
	}
	if err := UpdateUserRole(ctx, db, u.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	exp := time.Now().Add(30 * time.Minute)
	if err := SetVerificationToken(ctx, db, u.ID, "reset-1", exp); err != nil {
		t.Fatalf("SetVerificationToken: %v", err)
	}
	got, _ := GetUserByID(ctx, db, u.ID)
	if got.Name != "New Name" || got.Role != domain.RoleAdmin || got.VerificationToken == nil || *got.VerificationToken != "reset-1" {
		t.Fatalf("unexpected after updates: %+v", got)
	}

	if err := UpdateUserPassword(ctx, db, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ = GetUserByID(ctx, db, u.ID)
	if got.Password != "new-hash" || got.VerificationToken != nil || got.TokenExpiresAt != nil {
		t.Fatalf("password update should clear token: %+v", got)
	}

	if err := SetVerificationToken(ctx, db, u.ID, "verify-1", exp); err != nil {
		t.Fatalf("SetVerificationToken: %v", err)
	}
	if err := VerifyUser(ctx, db, u.ID); err != nil {
		t.Fatalf("VerifyUser: %v", err)
	}
	got, _ = GetUserByID(ctx, db, u.ID)
	if !got.Verified || got.VerificationToken != nil {
		t.Fatalf("verify should set flag and clear token: %+v", got)
	}
}

func TestUpdates_NotFound(t *testing.T) {
	db := newUserRepoDB(t, true)
	ctx := context.Background()
	for name, err := range map[string]error{
		"name":     UpdateUserName(ctx, db, "missing", "x"),
		"role":     UpdateUserRole(ctx, db, "missing", domain.RoleAdmin),
		"password": UpdateUserPassword(ctx, db, "missing", "h"),
		"verify":   VerifyUser(ctx, db, "missing"),
		"token":    SetVerificationToken(ctx, db, "missing", "t", time.Now()),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"UNIQUE constraint failed: users.email", true},
		{"constraint failed: UNIQUE constraint failed: users.email (2067)", true},
		{`ERROR: duplicate key value violates unique constraint "ux_users_email" (SQLSTATE 23505)`, true},
		{"no such table: users", false},
	}
	for _, tc := range cases {
		if got := isUniqueViolation(errors.New(tc.msg)); got != tc.want {
			t.Fatalf("isUniqueViolation(%q) = %v; want %v", tc.msg, got, tc.want)
		}
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm.ErrDuplicatedKey must count as duplicate")
	}
}
