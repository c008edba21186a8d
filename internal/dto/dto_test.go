package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
	"github.com/christian-bayata/user-auth-api/internal/validation"
)

func failure(t *testing.T, err error) *ValidationFailure {
	t.Helper()
	require.Error(t, err)
	var vf *ValidationFailure
	require.True(t, errors.As(err, &vf), "got %T", err)
	return vf
}

func TestRegisterUser_AllEmpty_OneViolationPerField(t *testing.T) {
	d, err := ParseJSON[RegisterUser]([]byte(`{}`))
	vf := failure(t, err)
	assert.Equal(t, RegisterUser{}, d)
	require.Len(t, vf.Violations, 4)
	assert.Equal(t, []string{
		"Name is required",
		"Email is required",
		"Password is required",
		"Password confirm is required",
	}, vf.Violations.Messages())
	for _, v := range vf.Violations {
		assert.Equal(t, validation.CodeRequired, v.Code)
	}
	assert.False(t, vf.Malformed())
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	_, err := ParseJSON[RegisterUser]([]byte(
		`{"name":"Ada","email":"ada@example.com","password":"abc","passwordConfirm":"abc"}`))
	vf := failure(t, err)
	require.Len(t, vf.Violations, 1)
	assert.Equal(t, "password", vf.Violations[0].Field)
	assert.Equal(t, validation.CodeMinLength, vf.Violations[0].Code)
	assert.Equal(t, "Password must be at least 6 characters", vf.Violations[0].Message)
}

func TestRegisterUser_Mismatch(t *testing.T) {
	_, err := ParseJSON[RegisterUser]([]byte(
		`{"name":"Ada","email":"ada@example.com","password":"secret1","passwordConfirm":"secret2"}`))
	vf := failure(t, err)
	require.Len(t, vf.Violations, 1)
	assert.Equal(t, "passwordConfirm", vf.Violations[0].Field)
	assert.Equal(t, "Passwords do not match", vf.Violations[0].Message)
	assert.Equal(t, httperr.BadRequest("Passwords do not match"), vf.HTTPError())
}

func TestRegisterUser_Valid(t *testing.T) {
	d, err := ParseJSON[RegisterUser]([]byte(
		`{"name":"Ada","email":"ada@example.com","password":"secret1","passwordConfirm":"secret1"}`))
	require.NoError(t, err)
	assert.Equal(t, RegisterUser{Name: "Ada", Email: "ada@example.com", Password: "secret1", PasswordConfirm: "secret1"}, d)
}

func TestLoginUser_InvalidEmail(t *testing.T) {
	_, err := ParseJSON[LoginUser]([]byte(`{"name":"Ada","email":"not-an-email","password":"secret1"}`))
	vf := failure(t, err)
	require.Len(t, vf.Violations, 1)
	assert.Equal(t, "Email is invalid", vf.Error())
}

func TestUserUpdatePassword_Order(t *testing.T) {
	_, err := ParseJSON[UserUpdatePassword]([]byte(`{"oldPassword":"","newPassword":"abc","newPasswordConfirm":"abcdefg"}`))
	vf := failure(t, err)
	require.Len(t, vf.Violations, 3)
	assert.Equal(t, []string{"oldPassword", "newPassword", "newPasswordConfirm"},
		[]string{vf.Violations[0].Field, vf.Violations[1].Field, vf.Violations[2].Field})
	assert.Equal(t, validation.CodeRequired, vf.Violations[0].Code)
	assert.Equal(t, validation.CodeMinLength, vf.Violations[1].Code)
	assert.Equal(t, "New passwords do not match", vf.Violations[2].Message)
	assert.Equal(t,
		"Old password is required, New password must be at least 6 characters, New passwords do not match",
		vf.HTTPError().Message)
}

func TestRoleUpdate(t *testing.T) {
	for _, ok := range []string{"admin", "user"} {
		d, err := ParseJSON[RoleUpdate]([]byte(`{"role":"` + ok + `"}`))
		require.NoError(t, err, ok)
		assert.Equal(t, domain.UserRole(ok), d.Role)
	}

	_, err := ParseJSON[RoleUpdate]([]byte(`{"role":"moderator"}`))
	vf := failure(t, err)
	require.Len(t, vf.Violations, 1)
	assert.Equal(t, CodeInvalidRole, vf.Violations[0].Code)
	assert.Equal(t, "Role must be either admin or user", vf.Violations[0].Message)

	_, err = ParseJSON[RoleUpdate]([]byte(`{}`))
	vf = failure(t, err)
	assert.Equal(t, CodeInvalidRole, vf.Violations[0].Code)

	_, err = ParseJSON[RoleUpdate]([]byte(`{"role":"root"}`))
	vf = failure(t, err)
	assert.True(t, vf.Malformed())
	assert.Equal(t, httperr.BadRequest(MsgInvalidPayload), vf.HTTPError())
}

func TestParseJSON_Malformed(t *testing.T) {
	for _, raw := range []string{
		``, `{`, `[]`, `{"name":5}`, `nope`,
		`{"name":"Ada"} garbage`, `{"name":"Ada"}{}`, `{"name":"Ada"} }`,
	} {
		d, err := ParseJSON[NameUpdate]([]byte(raw))
		vf := failure(t, err)
		assert.True(t, vf.Malformed(), raw)
		assert.NotNil(t, vf.Unwrap(), raw)
		assert.Equal(t, MsgInvalidPayload, vf.Error())
		assert.Equal(t, NameUpdate{}, d)
	}
}

func TestParseJSON_TrailingWhitespaceAllowed(t *testing.T) {
	d, err := ParseJSON[NameUpdate]([]byte("{\"name\":\"Ada\"}\n\t "))
	require.NoError(t, err)
	assert.Equal(t, "Ada", d.Name)
}

func TestParseJSON_TrailingDataCause(t *testing.T) {
	_, err := ParseJSON[NameUpdate]([]byte(`{"name":"Ada"} garbage`))
	vf := failure(t, err)
	assert.ErrorIs(t, vf, errTrailingData)
}

func TestEmptyPayload_RequiredPerField(t *testing.T) {
	empty := []byte(`{}`)
	cases := []struct {
		name  string
		parse func() error
		want  []string
	}{
		{"RegisterUser", func() error { _, err := ParseJSON[RegisterUser](empty); return err },
			[]string{"Name is required", "Email is required", "Password is required", "Password confirm is required"}},
		{"LoginUser", func() error { _, err := ParseJSON[LoginUser](empty); return err },
			[]string{"Name is required", "Email is required", "Password is required"}},
		{"NameUpdate", func() error { _, err := ParseJSON[NameUpdate](empty); return err },
			[]string{"Name is required"}},
		{"UserUpdatePassword", func() error { _, err := ParseJSON[UserUpdatePassword](empty); return err },
			[]string{"Old password is required", "New password is required", "New password confirm is required"}},
		{"ForgotPasswordRequest", func() error { _, err := ParseJSON[ForgotPasswordRequest](empty); return err },
			[]string{"Email is required"}},
		{"ResetPasswordRequest", func() error { _, err := ParseJSON[ResetPasswordRequest](empty); return err },
			[]string{"Token is required", "New password is required", "New password confirm is required"}},
		{"VerifyEmailQuery", func() error { _, err := ParseQuery[VerifyEmailQuery](url.Values{}); return err },
			[]string{"Token is required"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vf := failure(t, tc.parse())
			assert.False(t, vf.Malformed())
			assert.Equal(t, tc.want, vf.Violations.Messages())
			for _, v := range vf.Violations {
				assert.Equal(t, validation.CodeRequired, v.Code, v.Field)
			}
		})
	}

	// No required fields: an empty query is valid.
	_, err := ParseQuery[RequestQuery](url.Values{})
	assert.NoError(t, err)
}

func TestMaxLengths(t *testing.T) {
	name := func(n int) string { return strings.Repeat("n", n) }
	email := func(n int) string { return strings.Repeat("e", n-len("@example.com")) + "@example.com" }

	cases := []struct {
		name    string
		parse   func() error
		wantMsg string
	}{
		{"register name at cap", func() error {
			_, err := ParseJSON[RegisterUser]([]byte(`{"name":"` + name(MaxNameLength) +
				`","email":"a@example.com","password":"secret1","passwordConfirm":"secret1"}`))
			return err
		}, ""},
		{"register name over cap", func() error {
			_, err := ParseJSON[RegisterUser]([]byte(`{"name":"` + name(MaxNameLength+1) +
				`","email":"a@example.com","password":"secret1","passwordConfirm":"secret1"}`))
			return err
		}, "Name must be at most 100 characters"},
		{"register email at cap", func() error {
			_, err := ParseJSON[RegisterUser]([]byte(`{"name":"Ada","email":"` + email(MaxEmailLength) +
				`","password":"secret1","passwordConfirm":"secret1"}`))
			return err
		}, ""},
		{"register email over cap", func() error {
			_, err := ParseJSON[RegisterUser]([]byte(`{"name":"Ada","email":"` + email(MaxEmailLength+1) +
				`","password":"secret1","passwordConfirm":"secret1"}`))
			return err
		}, "Email must be at most 255 characters"},
		{"login email over cap", func() error {
			_, err := ParseJSON[LoginUser]([]byte(`{"name":"Ada","email":"` + email(MaxEmailLength+1) + `","password":"secret1"}`))
			return err
		}, "Email must be at most 255 characters"},
		{"forgot email over cap", func() error {
			_, err := ParseJSON[ForgotPasswordRequest]([]byte(`{"email":"` + email(MaxEmailLength+1) + `"}`))
			return err
		}, "Email must be at most 255 characters"},
		{"name update over cap (runes)", func() error {
			_, err := ParseJSON[NameUpdate]([]byte(`{"name":"` + strings.Repeat("é", MaxNameLength+1) + `"}`))
			return err
		}, "Name must be at most 100 characters"},
		{"name update at cap (runes)", func() error {
			_, err := ParseJSON[NameUpdate]([]byte(`{"name":"` + strings.Repeat("é", MaxNameLength) + `"}`))
			return err
		}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse()
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			vf := failure(t, err)
			require.Len(t, vf.Violations, 1)
			assert.Equal(t, validation.CodeMaxLength, vf.Violations[0].Code)
			assert.Equal(t, tc.wantMsg, vf.Violations[0].Message)
			assert.Equal(t, 400, vf.HTTPError().Status)
		})
	}
}

func TestNameUpdate_WhitespaceIsEmpty(t *testing.T) {
	_, err := ParseJSON[NameUpdate]([]byte(`{"name":"   "}`))
	vf := failure(t, err)
	assert.Equal(t, "Name is required", vf.Error())
}

func TestRequestQuery(t *testing.T) {
	cases := []struct {
		name    string
		q       url.Values
		wantMsg string
		batch   int
		limit   int
	}{
		{"defaults", url.Values{}, "", 1, 10},
		{"limit 50 ok", url.Values{"limit": {"50"}}, "", 1, 50},
		{"batch and limit", url.Values{"batch": {"3"}, "limit": {"5"}}, "", 3, 5},
		{"batch zero", url.Values{"batch": {"0"}}, "Batch must be at least 1", 0, 0},
		{"limit 51", url.Values{"limit": {"51"}}, "Limit must be between 1 and 50", 0, 0},
		{"limit zero", url.Values{"limit": {"0"}}, "Limit must be between 1 and 50", 0, 0},
		{"non numeric", url.Values{"batch": {"x"}, "limit": {"y"}}, "Batch must be at least 1, Limit must be between 1 and 50", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseQuery[RequestQuery](tc.q)
			if tc.wantMsg != "" {
				vf := failure(t, err)
				assert.Equal(t, tc.wantMsg, vf.Error())
				return
			}
			require.NoError(t, err)
			b, l := d.Pagination()
			assert.Equal(t, tc.batch, b)
			assert.Equal(t, tc.limit, l)
		})
	}
}

func TestVerifyEmailQuery(t *testing.T) {
	_, err := ParseQuery[VerifyEmailQuery](url.Values{})
	assert.Equal(t, "Token is required", failure(t, err).Error())

	d, err := ParseQuery[VerifyEmailQuery](url.Values{"token": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, "abc", d.Token)
}

func TestResetPasswordRequest(t *testing.T) {
	_, err := ParseJSON[ResetPasswordRequest]([]byte(`{"newPassword":"secret1","newPasswordConfirm":"secret1"}`))
	assert.Equal(t, "Token is required", failure(t, err).Error())

	_, err = ParseJSON[ResetPasswordRequest]([]byte(`{"token":"t","newPassword":"secret1","newPasswordConfirm":"secret1"}`))
	require.NoError(t, err)
}

func TestForgotPasswordRequest(t *testing.T) {
	_, err := ParseJSON[ForgotPasswordRequest]([]byte(`{"email":"ada@"}`))
	assert.Equal(t, "Email is invalid", failure(t, err).Error())
}

func TestBindJSONAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"Ada"}`))
	d, err := BindJSON[NameUpdate](c)
	require.NoError(t, err)
	assert.Equal(t, "Ada", d.Name)

	c.Request = httptest.NewRequest(http.MethodGet, "/x?batch=2&limit=20", nil)
	q, err := BindQuery[RequestQuery](c)
	require.NoError(t, err)
	b, l := q.Pagination()
	assert.Equal(t, 2, b)
	assert.Equal(t, 20, l)

	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
	c.Request.Body = nil
	_, err = BindJSON[NameUpdate](c)
	assert.True(t, failure(t, err).Malformed())
}

func TestBindJSON_BodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"`+strings.Repeat("a", 64)+`"}`))
	c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 16)

	d, err := BindJSON[NameUpdate](c)
	require.Error(t, err)
	assert.Equal(t, NameUpdate{}, d)

	var he httperr.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusRequestEntityTooLarge, he.Status)
	assert.Equal(t, MsgBodyTooLarge, he.Message)
	assert.Equal(t, he, httperr.From(err))
}

func TestFilterUser_NoSecrets(t *testing.T) {
	tok := "t"
	now := time.Now().UTC()
	u := domain.User{
		ID: "id-1", Name: "Ada", Email: "ada@example.com", Password: "hash",
		Role: domain.RoleAdmin, Verified: true, VerificationToken: &tok,
		CreatedAt: now, UpdatedAt: now,
	}
	f := FilterUserFrom(&u)
	assert.Equal(t, FilterUser{
		ID: "id-1", Name: "Ada", Email: "ada@example.com", Role: "admin",
		Verified: true, CreatedAt: now, UpdatedAt: now,
	}, f)

	list := FilterUsersFrom([]domain.User{u, {ID: "id-2"}})
	require.Len(t, list, 2)
	assert.Equal(t, "id-2", list[1].ID)
	assert.NotNil(t, FilterUsersFrom(nil))

	r := NewUserResponse(&u)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "id-1", r.Data.User.ID)
	assert.Equal(t, Response{Status: "success", Message: "done"}, OK("done"))
}
