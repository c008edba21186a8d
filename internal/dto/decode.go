package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
	"github.com/christian-bayata/user-auth-api/internal/validation"
)

// Messages used when input cannot be decoded into a DTO at all.
const (
	MsgInvalidPayload = "Invalid request payload"
	MsgInvalidQuery   = "Invalid query parameters"
	MsgBodyTooLarge   = "Request body too large"
)

// Request is implemented by every request DTO.
type Request interface {
	Validate() validation.Violations
}

// ValidationFailure is returned by the parse functions when a request is
// rejected before reaching a service. Either Violations is non-empty (rule
// failures) or Cause is set (malformed input).
type ValidationFailure struct {
	Violations validation.Violations
	Cause      error
	message    string
}

// Error implements error.
func (f *ValidationFailure) Error() string {
	if len(f.Violations) > 0 {
		return f.Violations.Error()
	}
	if f.message != "" {
		return f.message
	}
	return MsgInvalidPayload
}

// Unwrap exposes the decoding error, if any.
func (f *ValidationFailure) Unwrap() error { return f.Cause }

// Malformed reports whether the input could not be decoded.
func (f *ValidationFailure) Malformed() bool { return len(f.Violations) == 0 }

// HTTPError implements httperr.Coder. Every failure is a 400.
func (f *ValidationFailure) HTTPError() httperr.HTTPError {
	return httperr.BadRequest(f.Error())
}

func malformed(msg string, cause error) *ValidationFailure {
	return &ValidationFailure{Cause: cause, message: msg}
}

func validate[T Request](v T) (T, error) {
	if vs := v.Validate(); len(vs) > 0 {
		var zero T
		return zero, &ValidationFailure{Violations: vs}
	}
	return v, nil
}

// errTrailingData reports content after the first JSON value of a body.
var errTrailingData = errors.New("unexpected data after JSON value")

// ParseJSON decodes raw into T and validates it. raw must hold exactly one
// JSON value; anything but whitespace after it is malformed.
func ParseJSON[T Request](raw []byte) (T, error) {
	var v T
	if err := singleJSONValue(raw); err != nil {
		return v, malformed(MsgInvalidPayload, err)
	}
	if err := binding.JSON.BindBody(raw, &v); err != nil {
		var zero T
		return zero, malformed(MsgInvalidPayload, err)
	}
	return validate(v)
}

func singleJSONValue(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return err
	}
	var next json.RawMessage
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// ParseQuery maps query values onto T using `form` tags and validates it.
func ParseQuery[T Request](q url.Values) (T, error) {
	var v T
	if err := binding.MapFormWithTag(&v, q, "form"); err != nil {
		var zero T
		return zero, malformed(MsgInvalidQuery, err)
	}
	return validate(v)
}

// BindJSON reads the request body and delegates to ParseJSON. A body cut
// off by http.MaxBytesReader yields a 413 httperr.HTTPError rather than a
// ValidationFailure.
func BindJSON[T Request](c *gin.Context) (T, error) {
	var zero T
	if c.Request == nil || c.Request.Body == nil {
		return zero, malformed(MsgInvalidPayload, errors.New("empty body"))
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return zero, httperr.New(MsgBodyTooLarge, http.StatusRequestEntityTooLarge)
		}
		return zero, malformed(MsgInvalidPayload, err)
	}
	return ParseJSON[T](raw)
}

// BindQuery delegates to ParseQuery with the request's query string.
func BindQuery[T Request](c *gin.Context) (T, error) {
	return ParseQuery[T](c.Request.URL.Query())
}
