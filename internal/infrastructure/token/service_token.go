package token

import (
	"time"

	"momskitchen-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenConfig holds signing configuration for the gateway's own
// token, attached to proxied backend calls as X-Gateway-Token.
type ServiceTokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// ServiceTokenIssuer signs short-lived JWTs identifying this gateway to
// the marketplace backend. Implements domain.ServiceTokenIssuer.
type ServiceTokenIssuer struct {
	cfg ServiceTokenConfig
}

// NewServiceTokenIssuer creates a new issuer.
func NewServiceTokenIssuer(cfg ServiceTokenConfig) *ServiceTokenIssuer {
	return &ServiceTokenIssuer{cfg: cfg}
}

// Issue generates a signed service token.
func (s *ServiceTokenIssuer) Issue() (string, error) {
	if s.cfg.Secret == "" {
		return "", domain.ErrTokenGeneration
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Audience:  jwt.ClaimStrings{s.cfg.Audience},
		Subject:   s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
