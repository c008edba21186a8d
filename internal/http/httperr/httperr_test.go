package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

func TestStatusFor_Table(t *testing.T) {
	want := map[domain.ErrorKind]int{
		domain.KindEmptyPassword:      http.StatusBadRequest,
		domain.KindPasswordTooLong:    http.StatusBadRequest,
		domain.KindHashingError:       http.StatusInternalServerError,
		domain.KindInvalidToken:       http.StatusUnauthorized,
		domain.KindServerError:        http.StatusInternalServerError,
		domain.KindWrongCredentials:   http.StatusUnauthorized,
		domain.KindEmailAlreadyExists: http.StatusConflict,
		domain.KindUserNoLongerExists: http.StatusNotFound,
		domain.KindTokenNotProvided:   http.StatusUnauthorized,
		domain.KindPermissionDenied:   http.StatusForbidden,
		domain.KindNotAuthenticated:   http.StatusUnauthorized,
		domain.KindInvalidHashFormat:  http.StatusInternalServerError,
	}
	require.Len(t, want, len(domain.Kinds()))
	for _, k := range domain.Kinds() {
		exp, ok := want[k]
		require.True(t, ok, "kind %s missing from table", k)
		assert.Equal(t, exp, StatusFor(k), "kind %s", k)
	}
}

func TestFromDomain_EveryKind(t *testing.T) {
	allowed := map[int]bool{400: true, 401: true, 403: true, 404: true, 409: true, 500: true}
	for _, k := range domain.Kinds() {
		e := domain.Error{Kind: k, MaxLength: 64}
		he := FromDomain(e)
		assert.Equal(t, e.Error(), he.Message)
		assert.True(t, allowed[he.Status], "kind %s -> %d", k, he.Status)
		assert.NotEmpty(t, he.Message)
	}
	assert.Equal(t, New("Email already exists", http.StatusConflict), FromDomain(domain.ErrEmailAlreadyExists))
	assert.Equal(t, New("Password exceeded max length of 64", http.StatusBadRequest), FromDomain(domain.PasswordTooLong(64)))
}

func TestFactories(t *testing.T) {
	cases := []struct {
		got  HTTPError
		want int
	}{
		{ServerError("x"), 500},
		{BadRequest("x"), 400},
		{UniqueConstraintViolation("x"), 409},
		{Unauthorized("x"), 401},
		{Forbidden("x"), 403},
		{NotFound("x"), 404},
		{TooManyRequests("x"), 429},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.got.Status)
		assert.Equal(t, "x", tc.got.Message)
	}
}

func TestHTTPError_Display(t *testing.T) {
	assert.Equal(t, "HttpError: message: Invalid token, status: 401", Unauthorized("Invalid token").Error())
}

type coded struct{}

func (coded) Error() string { return "coded" }
func (coded) HTTPError() HTTPError { return BadRequest("Name is required") }

func TestFrom_Classification(t *testing.T) {
	assert.Equal(t, Forbidden("nope"), From(fmt.Errorf("wrap: %w", Forbidden("nope"))))
	assert.Equal(t, FromDomain(domain.ErrInvalidToken), From(fmt.Errorf("auth: %w", domain.ErrInvalidToken)))
	assert.Equal(t, BadRequest("Name is required"), From(coded{}))

	got := From(errors.New("pq: connection refused at 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "Internal server error", got.Message)
}

func decodeEnvelope(t *testing.T, body []byte) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "body %s", body)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Len(t, raw, 2, "envelope has extra keys: %s", body)
	return env
}

func TestRender_RoundTrip(t *testing.T) {
	messages := []string{
		"X",
		"",
		`quote " backslash \ tab	newline
end`,
		"unicode: 日本語 ✓ émoji 🚀",
		"<script>alert(1)</script> & co",
	}
	for _, m := range messages {
		status, body := Render(BadRequest(m))
		assert.Equal(t, http.StatusBadRequest, status)
		env := decodeEnvelope(t, body)
		assert.Equal(t, StatusFail, env.Status)
		assert.Equal(t, m, env.Message)
	}
}

func TestRender_InvalidStatus(t *testing.T) {
	for _, s := range []int{0, -1, 99, 600, 1000} {
		status, body := Render(New("weird", s))
		assert.Equal(t, http.StatusInternalServerError, status, "status %d", s)
		assert.Equal(t, "weird", decodeEnvelope(t, body).Message)
	}
}

func TestRender_DomainEndToEnd(t *testing.T) {
	status, body := Render(From(domain.ErrEmailAlreadyExists))
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"status":"fail","message":"Email already exists"}`, string(body))
}
