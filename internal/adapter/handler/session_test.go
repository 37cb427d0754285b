package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/infrastructure/state"
	"momskitchen-hub/middleware"
)

func injectState(st *state.SessionState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.WithSessionState(c, st)
			return next(c)
		}
	}
}

func TestSession_ReturnsResolvedProfile(t *testing.T) {
	st := state.New()
	st.Login(domain.ClassUser, &domain.UserProfile{ID: "u-1", Name: "Asha", Number: "+919876543210"})

	h := NewSessionHandler()
	e := echo.New()
	e.Use(injectState(st))
	e.GET("/v1/users/session", h.Class(domain.ClassUser))

	req := httptest.NewRequest(http.MethodGet, "/v1/users/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK    bool                `json:"ok"`
		Class domain.Class        `json:"class"`
		Data  *domain.UserProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, domain.ClassUser, resp.Class)
	assert.Equal(t, "u-1", resp.Data.ID)
}

func TestSession_UnauthenticatedClassGets401(t *testing.T) {
	// A logged-in user still has no mom session.
	st := state.New()
	st.Login(domain.ClassUser, &domain.UserProfile{ID: "u-1"})

	h := NewSessionHandler()
	e := echo.New()
	e.Use(injectState(st))
	e.GET("/v1/moms/session", h.Class(domain.ClassMom))

	req := httptest.NewRequest(http.MethodGet, "/v1/moms/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}
