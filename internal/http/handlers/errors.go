package handlers

import (
	"errors"
	"strconv"

	"github.com/christian-bayata/user-auth-api/internal/domain"
	"github.com/christian-bayata/user-auth-api/internal/dto"
	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
)

// Error classes reported on api_errors_total besides the catalog codes.
const (
	ClassValidation = "validation"
	ClassMalformed  = "malformed"
	ClassInternal   = "internal"
)

// errorClass labels err for metrics and logs: request failures are
// "validation" or "malformed", catalog errors use their code (for example
// "wrong_credentials"), explicit HTTP errors "http_<status>", the rest
// "internal".
func errorClass(err error) string {
	var vf *dto.ValidationFailure
	if errors.As(err, &vf) {
		if vf.Malformed() {
			return ClassMalformed
		}
		return ClassValidation
	}
	var de domain.Error
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	var he httperr.HTTPError
	if errors.As(err, &he) {
		return "http_" + strconv.Itoa(he.Status)
	}
	return ClassInternal
}
