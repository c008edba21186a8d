package dto

import (
	"time"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// StatusSuccess is the envelope status of every successful response.
const StatusSuccess = "success"

// FilterUser is the public projection of a user. It never carries the
// password hash or the verification token.
type FilterUser struct {
	ID        string    `json:"id" example:"5f0c6f9e-3c1d-4a51-9bb1-2f4f1f0e8a11"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" example:"ada@example.com"`
	Role      string    `json:"role" example:"user"`
	Verified  bool      `json:"verified" example:"true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FilterUserFrom projects u.
func FilterUserFrom(u *domain.User) FilterUser {
	return FilterUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FilterUsersFrom projects a slice of users, preserving order.
func FilterUsersFrom(us []domain.User) []FilterUser {
	out := make([]FilterUser, 0, len(us))
	for i := range us {
		out = append(out, FilterUserFrom(&us[i]))
	}
	return out
}

// UserData wraps a single user under "user".
type UserData struct {
	User FilterUser `json:"user"`
}

// UserResponse is returned by endpoints that yield one user.
type UserResponse struct {
	Status string   `json:"status" example:"success"`
	Data   UserData `json:"data"`
}

// NewUserResponse builds a success UserResponse for u.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{Status: StatusSuccess, Data: UserData{User: FilterUserFrom(u)}}
}

// UserListResponse is returned by the user listing endpoint. Results is the
// total number of users, not the page size.
type UserListResponse struct {
	Status  string       `json:"status" example:"success"`
	Users   []FilterUser `json:"users"`
	Results int64        `json:"results" example:"42"`
}

// UserLoginResponse carries the issued access token.
type UserLoginResponse struct {
	Status string `json:"status" example:"success"`
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// Response is a plain status + message body.
type Response struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Operation completed"`
}

// OK builds a success Response.
func OK(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}
