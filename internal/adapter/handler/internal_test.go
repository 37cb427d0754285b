package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/infrastructure/cache"
)

func TestHandleRevoke_DropsCachedProfile(t *testing.T) {
	profiles := cache.NewProfileCache(time.Minute)
	profiles.Set(domain.ClassUser, "key-1", &domain.UserProfile{ID: "u-1"})

	h := NewInternalHandler(profiles)
	e := echo.New()
	e.POST("/internal/revoke", h.HandleRevoke)

	req := httptest.NewRequest(http.MethodPost, "/internal/revoke",
		strings.NewReader(`{"class":"user","cache_key":"key-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, found := profiles.Get(domain.ClassUser, "key-1")
	assert.False(t, found)
}

func TestHandleRevoke_RejectsInvalidClass(t *testing.T) {
	h := NewInternalHandler(cache.NewProfileCache(time.Minute))
	e := echo.New()
	e.POST("/internal/revoke", h.HandleRevoke)

	req := httptest.NewRequest(http.MethodPost, "/internal/revoke",
		strings.NewReader(`{"class":"admin","cache_key":"key-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
