package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"momskitchen-hub/internal/domain"
)

// HMACCSRFGenerator derives CSRF tokens from a visitor identifier using
// HMAC-SHA256. Implements domain.CSRFTokenGenerator.
type HMACCSRFGenerator struct {
	secret []byte
}

// NewHMACCSRFGenerator creates a new CSRF token generator.
func NewHMACCSRFGenerator(secret string) *HMACCSRFGenerator {
	return &HMACCSRFGenerator{secret: []byte(secret)}
}

// Generate creates a deterministic CSRF token from a visitor ID.
func (g *HMACCSRFGenerator) Generate(visitorID string) (string, error) {
	if len(g.secret) == 0 {
		return "", domain.ErrCSRFSecretMissing
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(visitorID))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks a presented token against the visitor ID in constant time.
func (g *HMACCSRFGenerator) Verify(visitorID, presented string) bool {
	expected, err := g.Generate(visitorID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(presented))
}
