package handler

import (
	"log/slog"
	"net/http"

	"momskitchen-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// InternalHandler handles service-to-service requests from the backend.
type InternalHandler struct {
	cache domain.ProfileCache
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(cache domain.ProfileCache) *InternalHandler {
	return &InternalHandler{cache: cache}
}

type revokeRequest struct {
	Class    domain.Class `json:"class"`
	CacheKey string       `json:"cache_key"`
}

// HandleRevoke drops a cached profile so the next resolution goes back
// to the backend. The backend calls this when it invalidates a session
// out of band, a banned account for example.
func (h *InternalHandler) HandleRevoke(c echo.Context) error {
	ctx := c.Request().Context()

	var req revokeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if !req.Class.Valid() || req.CacheKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "class and cache_key are required")
	}

	h.cache.Drop(req.Class, req.CacheKey)
	slog.InfoContext(ctx, "cached profile revoked", "class", req.Class, "remote_addr", c.RealIP())
	return c.NoContent(http.StatusNoContent)
}
