package handler

import (
	"log/slog"
	"net/http"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/middleware"

	"github.com/labstack/echo/v4"
)

// CSRFHandler mints CSRF tokens bound to the visitor id cookie.
type CSRFHandler struct {
	generator domain.CSRFTokenGenerator
}

// NewCSRFHandler creates a new CSRF handler.
func NewCSRFHandler(generator domain.CSRFTokenGenerator) *CSRFHandler {
	return &CSRFHandler{generator: generator}
}

// csrfResponse represents the CSRF token response.
type csrfResponse struct {
	Data struct {
		CSRFToken string `json:"csrf_token"`
	} `json:"data"`
}

// Handle processes CSRF token requests.
func (h *CSRFHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	visitor := middleware.VisitorID(c)
	if visitor == "" {
		slog.WarnContext(ctx, "csrf token request without visitor id")
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "visitor cookie required",
		})
	}

	token, err := h.generator.Generate(visitor)
	if err != nil {
		return mapDomainError(err)
	}

	resp := csrfResponse{}
	resp.Data.CSRFToken = token
	return c.JSON(http.StatusOK, resp)
}
