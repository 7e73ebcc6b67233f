package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// maxHeaderValueSize is the largest header value accepted.
const maxHeaderValueSize = 8192

// Sanitize rejects requests with path traversal sequences, null bytes or
// header injection before they reach a handler. Asset names and ids come
// from the path, so these never get as far as the filesystem or the database.
func Sanitize(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			rawPath := req.URL.RawPath
			if rawPath == "" {
				rawPath = path
			}

			reject := func(reason string) error {
				logger.Warn().
					Str("request_id", requestIDFrom(c)).
					Str("path", path).
					Str("remote_ip", c.RealIP()).
					Str("reason", reason).
					Msg("request rejected")
				return echo.NewHTTPError(http.StatusBadRequest, reason)
			}

			if containsPathTraversal(path) || containsPathTraversal(rawPath) {
				return reject("path traversal detected")
			}
			if containsNullByte(path) || containsNullByte(rawPath) {
				return reject("null byte in path")
			}

			for name, values := range req.Header {
				for _, v := range values {
					if len(v) > maxHeaderValueSize {
						return reject("header value too large: " + name)
					}
					if strings.ContainsAny(v, "\r\n") {
						return reject("header injection detected: " + name)
					}
				}
			}

			for key, values := range req.URL.Query() {
				if containsNullByte(key) {
					return reject("null byte in query parameter")
				}
				for _, v := range values {
					if containsNullByte(v) {
						return reject("null byte in query parameter")
					}
				}
			}

			return next(c)
		}
	}
}

func containsPathTraversal(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(s, "..") || strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%252e")
}

func containsNullByte(s string) bool {
	return strings.ContainsRune(s, '\x00') || strings.Contains(strings.ToLower(s), "%00")
}
