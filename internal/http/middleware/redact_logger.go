// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, a verbose request logger that dumps
// request headers with sensitive values scrubbed, and scrub, the shared
// redaction used by every log line that carries user input.
//
// What gets scrubbed:
//   - values of token= query parameters (verification and reset tokens)
//   - email addresses, phone numbers and UUID-like identifiers
//   - the Authorization, Cookie and Set-Cookie headers, plus any configured
//     in RedactOptions.MaskHeaders, which are replaced entirely
//
// Bodies are never logged.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var (
	tokenParamRE = regexp.MustCompile(`(?i)((?:^|[?&;])(?:reset_)?token=)[^&;]*`)
	uuidRE       = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE      = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+(?:@|%40)[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so it cannot bite into the hex segments of a UUID.
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// scrub redacts token parameters, UUIDs, emails and phone numbers in s.
// Order matters: tokens first (they are often UUIDs), phone last since it is
// the loosest pattern.
func scrub(s string) string {
	if s == "" {
		return s
	}
	out := tokenParamRE.ReplaceAllString(s, "${1}[REDACTED]")
	out = uuidRE.ReplaceAllString(out, "[REDACTED:id]")
	out = emailRE.ReplaceAllString(out, "[REDACTED:email]")
	out = phoneRE.ReplaceAllString(out, "[REDACTED:phone]")
	return out
}

// RedactOptions configures RedactingLogger.
//
// MaskHeaders lists extra header names (case-insensitive) whose values are
// replaced with "[REDACTED]". Level is used for successful requests; 4xx is
// always warn and 5xx error. The zero Level is debug.
type RedactOptions struct {
	MaskHeaders []string
	Level       zerolog.Level
}

// RedactingLogger logs method, path, scrubbed query, status, size, latency
// and the scrubbed request headers through the request-scoped logger. The
// router installs it only at debug log level because header dumps are large.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrub(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = scrub(strings.Join(vv, ", "))
		}

		c.Next()

		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}

		status := c.Writer.Status()
		lg := LoggerFrom(c)
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = lg.Error()
		case status >= 400:
			ev = lg.Warn()
		default:
			ev = lg.WithLevel(opts.Level)
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
