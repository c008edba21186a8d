// Package handlers provides the HTTP handlers of the public API.
//
// This file defines the response helpers shared by every endpoint. Failures
// always leave through fail(), which turns any error into the single error
// envelope:
//
//	HTTP/1.1 409 Conflict
//	{ "status": "fail", "message": "Email already exists" }
//
// Successful responses carry "status": "success" (see package dto).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/http/httperr"
	"github.com/christian-bayata/user-auth-api/internal/http/middleware"
)

// fail classifies err, logs server-side failures with their cause, and
// aborts with the matching envelope. Internal details never reach the
// client: anything unclassified is a 500 "Internal server error".
func fail(c *gin.Context, err error) {
	he := httperr.From(err)
	class := errorClass(err)
	if he.Status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Err(err).
			Int("status", he.Status).
			Str("error_class", class).
			Msg("api error")
	}
	middleware.Abort(c, he, class)
}

// Fail aborts with he. The router uses it for the 404/405 fallbacks.
func Fail(c *gin.Context, he httperr.HTTPError) { middleware.Abort(c, he, "") }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
