package token

import (
	"testing"
	"time"

	"momskitchen-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenIssuer_SignsVerifiableToken(t *testing.T) {
	issuer := NewServiceTokenIssuer(ServiceTokenConfig{
		Secret:   "test-secret-test-secret-test-secret",
		Issuer:   "momskitchen-hub",
		Audience: "momskitchen-backend",
		TTL:      5 * time.Minute,
	})

	signed, err := issuer.Issue()
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret-test-secret-test-secret"), nil
	})
	require.NoError(t, err)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "momskitchen-hub", claims.Issuer)
	assert.Contains(t, claims.Audience, "momskitchen-backend")
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestServiceTokenIssuer_EmptySecret(t *testing.T) {
	issuer := NewServiceTokenIssuer(ServiceTokenConfig{TTL: time.Minute})

	_, err := issuer.Issue()

	assert.ErrorIs(t, err, domain.ErrTokenGeneration)
}

func TestCSRF_GenerateIsDeterministic(t *testing.T) {
	g := NewHMACCSRFGenerator("csrf-secret")

	first, err := g.Generate("visitor-1")
	require.NoError(t, err)
	second, err := g.Generate("visitor-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCSRF_VerifyRejectsOtherVisitor(t *testing.T) {
	g := NewHMACCSRFGenerator("csrf-secret")

	tok, err := g.Generate("visitor-1")
	require.NoError(t, err)

	assert.True(t, g.Verify("visitor-1", tok))
	assert.False(t, g.Verify("visitor-2", tok))
}

func TestCSRF_MissingSecret(t *testing.T) {
	g := NewHMACCSRFGenerator("")

	_, err := g.Generate("visitor-1")

	assert.ErrorIs(t, err, domain.ErrCSRFSecretMissing)
}
