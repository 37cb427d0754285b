package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"momskitchen-hub/internal/domain"
)

const gatewayTokenHeader = "X-Gateway-Token"

// AttachServiceToken stamps requests bound for the backend with a
// short-lived signed gateway token so the backend can tell gateway
// traffic from direct traffic. Used in front of the proxy groups.
func AttachServiceToken(issuer domain.ServiceTokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if issuer != nil {
				tok, err := issuer.Issue()
				if err != nil {
					slog.WarnContext(c.Request().Context(), "service token issue failed", "error", err)
				} else {
					c.Request().Header.Set(gatewayTokenHeader, tok)
				}
			}
			return next(c)
		}
	}
}
