package domain

import (
	"context"
	"net/http"
)

// BackendGateway is the marketplace backend at its interface boundary.
// Every call attaches credentials opaquely; returned cookies are the
// backend's Set-Cookie side effects to relay to the browser.
type BackendGateway interface {
	// FetchProfile returns ErrAuthExpired on a 401, ErrEmptyProfile on a
	// 2xx with no payload, and ErrTransport/ErrBackendUnavailable otherwise.
	FetchProfile(ctx context.Context, class Class, creds Credentials) (Profile, []*http.Cookie, error)
	// Refresh mints a new access credential as a cookie side effect.
	Refresh(ctx context.Context, class Class, creds Credentials) ([]*http.Cookie, error)
	// Login submits a phone number and returns the pre-verification identity.
	Login(ctx context.Context, class Class, number string) (*LoginIdentity, []*http.Cookie, error)
	// Logout invalidates the class session server-side.
	Logout(ctx context.Context, class Class, creds Credentials) error
	// Register creates an account; the raw response body is passed through.
	Register(ctx context.Context, class Class, body []byte) ([]byte, int, error)
}

// OTPProvider is the passwordless login provider at its interface boundary.
type OTPProvider interface {
	RequestChallenge(ctx context.Context, identityID, number string) (ChallengeHandle, error)
	// SubmitCode exchanges the one-time code for a provider session token.
	SubmitCode(ctx context.Context, challenge ChallengeHandle, number, code string) (string, error)
	// EndSession revokes a provider session. Best effort.
	EndSession(ctx context.Context, sessionToken string) error
}

// ProfileCache caches resolved profiles keyed by credential cache key.
type ProfileCache interface {
	Get(class Class, key string) (Profile, bool)
	Set(class Class, key string, profile Profile)
	Drop(class Class, key string)
}

// ServiceTokenIssuer signs the gateway's own token for backend calls.
type ServiceTokenIssuer interface {
	Issue() (string, error)
}

// CSRFTokenGenerator derives a form token from a visitor identifier.
type CSRFTokenGenerator interface {
	Generate(visitorID string) (string, error)
}
