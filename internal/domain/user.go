package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// UserRole is the authorization role stored on a user.
//
// RoleModerator is reserved: it decodes from JSON but is not assignable
// through the role update endpoint.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
)

// ErrUnknownRole is returned when decoding a role name that is not declared.
var ErrUnknownRole = errors.New("unknown role")

// ParseUserRole converts a role name (case-insensitive) to a UserRole.
func ParseUserRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleUser, RoleModerator:
		return r, nil
	}
	return "", ErrUnknownRole
}

// String returns the wire name of the role.
func (r UserRole) String() string { return string(r) }

// UnmarshalJSON accepts only declared role names. A JSON null leaves r
// unchanged.
func (r *UserRole) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseUserRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the persisted account record.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Email: unique login identifier.
//   - Password: bcrypt hash; never serialized.
//   - VerificationToken / TokenExpiresAt: single-use token for email
//     verification and password reset, cleared once consumed.
type User struct {
	ID                string     `json:"id"       gorm:"type:char(36);primaryKey"`
	Name              string     `json:"name"     gorm:"type:varchar(100);not null"`
	Email             string     `json:"email"    gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password          string     `json:"-"        gorm:"type:varchar(100);not null"`
	Role              UserRole   `json:"role"     gorm:"type:varchar(16);not null;default:'user'"`
	Verified          bool       `json:"verified" gorm:"not null;default:false"`
	VerificationToken *string    `json:"-"        gorm:"type:varchar(64);index:idx_users_token"`
	TokenExpiresAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// HasRole reports whether the user holds one of roles.
func (u *User) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
