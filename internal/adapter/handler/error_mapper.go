package handler

import (
	"errors"
	"net/http"

	"momskitchen-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrAuthRejected):
		// The backend message is user-facing ("mom not registered").
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, domain.ErrAuthExpired),
		errors.Is(err, domain.ErrNoSession):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrWrongIdentity),
		errors.Is(err, domain.ErrCSRFRejected):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	case errors.Is(err, domain.ErrProvider):
		return echo.NewHTTPError(http.StatusBadGateway, "otp provider unavailable")

	case errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrBackendUnavailable),
		errors.Is(err, domain.ErrEmptyProfile):
		return echo.NewHTTPError(http.StatusBadGateway, "backend unavailable")

	case errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrCSRFSecretMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
