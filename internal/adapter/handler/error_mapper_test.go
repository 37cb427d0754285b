package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"momskitchen-hub/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"auth expired", domain.ErrAuthExpired, http.StatusUnauthorized},
		{"auth rejected", domain.ErrAuthRejected, http.StatusUnauthorized},
		{"no session", domain.ErrNoSession, http.StatusUnauthorized},
		{"wrong identity", domain.ErrWrongIdentity, http.StatusForbidden},
		{"csrf rejected", domain.ErrCSRFRejected, http.StatusForbidden},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"provider down", domain.ErrProvider, http.StatusBadGateway},
		{"backend down", domain.ErrBackendUnavailable, http.StatusBadGateway},
		{"transport", domain.ErrTransport, http.StatusBadGateway},
		{"empty profile", domain.ErrEmptyProfile, http.StatusBadGateway},
		{"token generation", domain.ErrTokenGeneration, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := mapDomainError(fmt.Errorf("wrapped: %w", tt.err))
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestMapDomainError_SurfacesRejectionMessage(t *testing.T) {
	err := fmt.Errorf("%w: mom not registered", domain.ErrAuthRejected)

	he := mapDomainError(err)

	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Contains(t, fmt.Sprint(he.Message), "mom not registered")
}
