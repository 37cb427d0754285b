package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"momskitchen-hub/internal/infrastructure/token"
)

const (
	visitorCookieName = "VisitorID"
	csrfHeader        = "X-CSRF-Token"
)

// EnsureVisitor assigns every browser a stable visitor id cookie. CSRF
// tokens are bound to it.
func EnsureVisitor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := c.Cookie(visitorCookieName); err != nil {
				id := uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     visitorCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				c.Set(visitorCookieName, id)
			}
			return next(c)
		}
	}
}

// VisitorID returns the visitor id for the request, empty when absent.
func VisitorID(c echo.Context) string {
	if ck, err := c.Cookie(visitorCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	if id, ok := c.Get(visitorCookieName).(string); ok {
		return id
	}
	return ""
}

// CSRF verifies the X-CSRF-Token header on state-changing requests.
// With no generator configured the check is disabled.
func CSRF(generator *token.HMACCSRFGenerator, enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled || c.Request().Method == http.MethodGet {
				return next(c)
			}

			visitor := VisitorID(c)
			presented := c.Request().Header.Get(csrfHeader)
			if visitor == "" || presented == "" || !generator.Verify(visitor, presented) {
				return echo.NewHTTPError(http.StatusForbidden, "csrf token rejected")
			}
			return next(c)
		}
	}
}
