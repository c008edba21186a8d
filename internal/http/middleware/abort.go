package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
)

const jsonContentType = "application/json; charset=utf-8"

// Abort stops the handler chain and writes he as the error envelope.
//
// class labels the api_errors_total counter; when empty it becomes
// "http_<status>". Logging the cause is left to the caller, which knows it.
// If a response was already written only the chain is stopped.
func Abort(c *gin.Context, he httperr.HTTPError, class string) {
	status, body := httperr.Render(he)
	if class == "" {
		class = "http_" + strconv.Itoa(status)
	}
	CountError(class)

	if c.Writer.Written() {
		c.Abort()
		return
	}
	if rid := c.GetString(requestIDKey); rid != "" {
		c.Header(requestIDHeader, rid)
	}
	c.Abort()
	c.Data(status, jsonContentType, body)
}
