package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const internalAuthHeader = "X-Internal-Auth"

// InternalAuth gates the operational endpoints behind a shared secret.
// Constant-time comparison so the header cannot be probed byte by byte.
func InternalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "internal endpoints disabled")
			}
			presented := c.Request().Header.Get(internalAuthHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid internal credentials")
			}
			return next(c)
		}
	}
}
