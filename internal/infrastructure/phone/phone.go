// Package phone normalizes phone numbers to the single international
// format the OTP provider accepts.
package phone

import (
	"fmt"
	"strings"

	"momskitchen-hub/internal/domain"
)

// Normalizer canonicalizes numbers for one country prefix.
type Normalizer struct {
	prefix         string
	nationalDigits int
}

// NewNormalizer creates a normalizer for the given dialing prefix
// (e.g. "+91") and national digit count.
func NewNormalizer(prefix string, nationalDigits int) *Normalizer {
	return &Normalizer{prefix: prefix, nationalDigits: nationalDigits}
}

// Normalize returns the canonical form of raw. Bare numbers get the
// configured prefix; already-prefixed numbers pass through. A number
// whose normalized length exceeds prefix+nationalDigits is rejected
// before any network call.
func (n *Normalizer) Normalize(raw string) (string, error) {
	number := strings.TrimSpace(raw)
	if number == "" {
		return "", fmt.Errorf("%w: phone number required", domain.ErrValidation)
	}

	if !strings.HasPrefix(number, n.prefix) {
		for _, r := range number {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("%w: phone number must contain digits only", domain.ErrValidation)
			}
		}
		number = n.prefix + number
	}

	if len(number) > len(n.prefix)+n.nationalDigits {
		return "", fmt.Errorf("%w: phone number exceeds %d digits", domain.ErrValidation, n.nationalDigits)
	}
	if len(number) < len(n.prefix)+n.nationalDigits {
		return "", fmt.Errorf("%w: phone number must have %d digits", domain.ErrValidation, n.nationalDigits)
	}

	for _, r := range number[len(n.prefix):] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: phone number must contain digits only", domain.ErrValidation)
		}
	}

	return number, nil
}
