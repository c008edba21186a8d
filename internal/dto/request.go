// Package dto defines the typed request and response shapes of the public
// API and the parse-then-validate pipeline every request goes through.
//
// Request DTOs are plain values. Each one owns a validation.Schema built at
// package init; Validate runs it. Wire names use lowerCamelCase for
// multi-word fields (passwordConfirm, newPassword, createdAt).
package dto

import (
	"math"
	"strings"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/utils"
	"github.com/christian-bayata/user-auth-api/internal/validation"
)

// MinPasswordLength is the shortest password any DTO accepts.
const MinPasswordLength = 6

// Column limits of the users table, in characters.
const (
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// Pagination defaults and bounds for list endpoints.
const (
	DefaultBatch = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// RegisterUser is the payload of POST /auth/register.
type RegisterUser struct {
	Name            string `json:"name" example:"Ada Lovelace"`
	Email           string `json:"email" example:"ada@example.com"`
	Password        string `json:"password" example:"secret1"`
	PasswordConfirm string `json:"passwordConfirm" example:"secret1"`
}

var registerUserSchema = validation.NewSchema[RegisterUser]().
	Field("name", func(d RegisterUser) string { return d.Name },
		validation.Required("Name is required"),
		validation.MaxLength(MaxNameLength, "Name must be at most 100 characters")).
	Field("email", func(d RegisterUser) string { return d.Email },
		validation.Required("Email is required"),
		validation.MaxLength(MaxEmailLength, "Email must be at most 255 characters"),
		validation.Email("Email is invalid")).
	Field("password", func(d RegisterUser) string { return d.Password },
		validation.Required("Password is required"),
		validation.MinLength(MinPasswordLength, "Password must be at least 6 characters")).
	Field("passwordConfirm", func(d RegisterUser) string { return d.PasswordConfirm },
		validation.Required("Password confirm is required"),
		validation.EqualsField("password", "Passwords do not match"))

// Validate implements Request.
func (d RegisterUser) Validate() validation.Violations { return registerUserSchema.Validate(d) }

// LoginUser is the payload of POST /auth/login.
type LoginUser struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret1"`
}

var loginUserSchema = validation.NewSchema[LoginUser]().
	Field("name", func(d LoginUser) string { return d.Name },
		validation.Required("Name is required")).
	Field("email", func(d LoginUser) string { return d.Email },
		validation.Required("Email is required"),
		validation.MaxLength(MaxEmailLength, "Email must be at most 255 characters"),
		validation.Email("Email is invalid")).
	Field("password", func(d LoginUser) string { return d.Password },
		validation.Required("Password is required"),
		validation.MinLength(MinPasswordLength, "Password must be at least 6 characters"))

// Validate implements Request.
func (d LoginUser) Validate() validation.Violations { return loginUserSchema.Validate(d) }

// NameUpdate is the payload of PUT /users/me/name.
type NameUpdate struct {
	Name string `json:"name" example:"Ada King"`
}

var nameUpdateSchema = validation.NewSchema[NameUpdate]().
	Field("name", func(d NameUpdate) string { return d.Name },
		validation.Required("Name is required"),
		validation.MaxLength(MaxNameLength, "Name must be at most 100 characters"))

// Validate implements Request.
func (d NameUpdate) Validate() validation.Violations { return nameUpdateSchema.Validate(d) }

// RoleUpdate is the payload of PUT /users/{id}/role. Decoding accepts every
// declared role; validation then admits only admin and user.
type RoleUpdate struct {
	Role domain.UserRole `json:"role" example:"admin"`
}

// CodeInvalidRole is the violation code of the role membership rule.
const CodeInvalidRole = "invalid_role"

var roleUpdateSchema = validation.NewSchema[RoleUpdate]().
	Field("role", func(d RoleUpdate) string { return string(d.Role) },
		validation.Custom(CodeInvalidRole, "Role must be either admin or user", isAssignableRole))

func isAssignableRole(v string) bool {
	switch domain.UserRole(v) {
	case domain.RoleAdmin, domain.RoleUser:
		return true
	case domain.RoleModerator:
		return false
	}
	return false
}

// Validate implements Request.
func (d RoleUpdate) Validate() validation.Violations { return roleUpdateSchema.Validate(d) }

// UserUpdatePassword is the payload of PUT /users/me/password.
type UserUpdatePassword struct {
	OldPassword        string `json:"oldPassword" example:"secret1"`
	NewPassword        string `json:"newPassword" example:"secret2"`
	NewPasswordConfirm string `json:"newPasswordConfirm" example:"secret2"`
}

var userUpdatePasswordSchema = validation.NewSchema[UserUpdatePassword]().
	Field("oldPassword", func(d UserUpdatePassword) string { return d.OldPassword },
		validation.Required("Old password is required"),
		validation.MinLength(MinPasswordLength, "Old password must be at least 6 characters")).
	Field("newPassword", func(d UserUpdatePassword) string { return d.NewPassword },
		validation.Required("New password is required"),
		validation.MinLength(MinPasswordLength, "New password must be at least 6 characters")).
	Field("newPasswordConfirm", func(d UserUpdatePassword) string { return d.NewPasswordConfirm },
		validation.Required("New password confirm is required"),
		validation.MinLength(MinPasswordLength, "New password confirm must be at least 6 characters"),
		validation.EqualsField("newPassword", "New passwords do not match"))

// Validate implements Request.
func (d UserUpdatePassword) Validate() validation.Violations {
	return userUpdatePasswordSchema.Validate(d)
}

// VerifyEmailQuery is the query of GET /auth/verify.
type VerifyEmailQuery struct {
	Token string `form:"token"`
}

var verifyEmailQuerySchema = validation.NewSchema[VerifyEmailQuery]().
	Field("token", func(d VerifyEmailQuery) string { return d.Token },
		validation.Required("Token is required"))

// Validate implements Request.
func (d VerifyEmailQuery) Validate() validation.Violations { return verifyEmailQuerySchema.Validate(d) }

// ForgotPasswordRequest is the payload of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

var forgotPasswordSchema = validation.NewSchema[ForgotPasswordRequest]().
	Field("email", func(d ForgotPasswordRequest) string { return d.Email },
		validation.Required("Email is required"),
		validation.MaxLength(MaxEmailLength, "Email must be at most 255 characters"),
		validation.Email("Email is invalid"))

// Validate implements Request.
func (d ForgotPasswordRequest) Validate() validation.Violations {
	return forgotPasswordSchema.Validate(d)
}

// ResetPasswordRequest is the payload of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token              string `json:"token" example:"5f0c6f9e-3c1d-4a51-9bb1-2f4f1f0e8a11"`
	NewPassword        string `json:"newPassword" example:"secret2"`
	NewPasswordConfirm string `json:"newPasswordConfirm" example:"secret2"`
}

var resetPasswordSchema = validation.NewSchema[ResetPasswordRequest]().
	Field("token", func(d ResetPasswordRequest) string { return d.Token },
		validation.Required("Token is required")).
	Field("newPassword", func(d ResetPasswordRequest) string { return d.NewPassword },
		validation.Required("New password is required"),
		validation.MinLength(MinPasswordLength, "New password must be at least 6 characters")).
	Field("newPasswordConfirm", func(d ResetPasswordRequest) string { return d.NewPasswordConfirm },
		validation.Required("New password confirm is required"),
		validation.MinLength(MinPasswordLength, "New password confirm must be at least 6 characters"),
		validation.EqualsField("newPassword", "New passwords do not match"))

// Validate implements Request.
func (d ResetPasswordRequest) Validate() validation.Violations {
	return resetPasswordSchema.Validate(d)
}

// RequestQuery carries the pagination query of list endpoints. Values stay
// raw strings until validated so non-numeric input is reported as a range
// violation rather than a decode error.
type RequestQuery struct {
	Batch string `form:"batch"`
	Limit string `form:"limit"`
}

var requestQuerySchema = validation.NewSchema[RequestQuery]().
	Field("batch", func(d RequestQuery) string { return d.Batch },
		validation.Range(1, math.MaxInt32, "Batch must be at least 1").Optional()).
	Field("limit", func(d RequestQuery) string { return d.Limit },
		validation.Range(1, MaxLimit, "Limit must be between 1 and 50").Optional())

// Validate implements Request.
func (d RequestQuery) Validate() validation.Violations { return requestQuerySchema.Validate(d) }

// Pagination returns the validated batch (1-based page) and limit, falling
// back to DefaultBatch and DefaultLimit for absent values.
func (d RequestQuery) Pagination() (batch, limit int) {
	batch = utils.AtoiDefault(strings.TrimSpace(d.Batch), DefaultBatch)
	limit = utils.AtoiDefault(strings.TrimSpace(d.Limit), DefaultLimit)
	return batch, limit
}
