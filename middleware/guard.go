package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"momskitchen-hub/internal/domain"
)

// Guard protects a route namespace for one identity class. It is pure
// routing logic over state the session resolver already settled; it
// performs no network calls and surfaces no errors, only redirects.
//
// Cross-class exclusion comes first: an authenticated mom never sees a
// user route, even one that requires no authentication, and vice versa.
func Guard(this domain.Class, requireAuth bool) echo.MiddlewareFunc {
	other := this.Other()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := SessionFromContext(c)

			if st.Authenticated(other) {
				return c.Redirect(http.StatusSeeOther, other.HomeRoute())
			}
			if requireAuth && !st.Authenticated(this) {
				return c.Redirect(http.StatusSeeOther, this.LoginRoute())
			}
			if !requireAuth && st.Authenticated(this) {
				return c.Redirect(http.StatusSeeOther, this.HomeRoute())
			}
			return next(c)
		}
	}
}
