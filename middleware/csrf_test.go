package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momskitchen-hub/internal/infrastructure/token"
)

func TestEnsureVisitor_AssignsCookieOnce(t *testing.T) {
	e := echo.New()
	e.Use(EnsureVisitor())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var issued *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "VisitorID" {
			issued = ck
		}
	}
	require.NotNil(t, issued)
	assert.NotEmpty(t, issued.Value)
	assert.True(t, issued.HttpOnly)

	// A returning visitor keeps the id they already carry.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: "VisitorID", Value: issued.Value})
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)

	for _, ck := range rec2.Result().Cookies() {
		assert.NotEqual(t, "VisitorID", ck.Name)
	}
}

func TestCSRF_AcceptsMatchingToken(t *testing.T) {
	gen := token.NewHMACCSRFGenerator("test-secret")

	e := echo.New()
	e.Use(CSRF(gen, true))
	e.POST("/v1/users/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tok, err := gen.Generate("visitor-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
	req.AddCookie(&http.Cookie{Name: "VisitorID", Value: "visitor-1"})
	req.Header.Set("X-CSRF-Token", tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_RejectsMissingOrForeignToken(t *testing.T) {
	gen := token.NewHMACCSRFGenerator("test-secret")

	e := echo.New()
	e.Use(CSRF(gen, true))
	e.POST("/v1/users/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// No token at all.
	req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
	req.AddCookie(&http.Cookie{Name: "VisitorID", Value: "visitor-1"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Token minted for a different visitor.
	foreign, err := gen.Generate("someone-else")
	require.NoError(t, err)

	req2 := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
	req2.AddCookie(&http.Cookie{Name: "VisitorID", Value: "visitor-1"})
	req2.Header.Set("X-CSRF-Token", foreign)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusForbidden, rec2.Code)
}

func TestCSRF_SkipsReadsAndDisabledMode(t *testing.T) {
	gen := token.NewHMACCSRFGenerator("test-secret")

	e := echo.New()
	e.Use(CSRF(gen, true))
	e.GET("/v1/users/session", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	e2 := echo.New()
	e2.Use(CSRF(gen, false))
	e2.POST("/v1/users/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req2 := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
	rec2 := httptest.NewRecorder()
	e2.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}
