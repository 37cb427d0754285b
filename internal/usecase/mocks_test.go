package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"momskitchen-hub/internal/domain"
)

// profileReply scripts one FetchProfile answer.
type profileReply struct {
	profile domain.Profile
	cookies []*http.Cookie
	err     error
}

// mockBackend implements domain.BackendGateway for testing.
type mockBackend struct {
	profileReplies []profileReply
	profileCalls   int

	refreshCookies []*http.Cookie
	refreshErr     error
	refreshCalls   int

	loginIdentity *domain.LoginIdentity
	loginCookies  []*http.Cookie
	loginErr      error
	loginNumbers  []string

	logoutCalls   int
	logoutClasses []domain.Class
}

func (m *mockBackend) FetchProfile(_ context.Context, _ domain.Class, _ domain.Credentials) (domain.Profile, []*http.Cookie, error) {
	idx := m.profileCalls
	m.profileCalls++
	if idx >= len(m.profileReplies) {
		idx = len(m.profileReplies) - 1
	}
	reply := m.profileReplies[idx]
	return reply.profile, reply.cookies, reply.err
}

func (m *mockBackend) Refresh(ctx context.Context, _ domain.Class, _ domain.Credentials) ([]*http.Cookie, error) {
	m.refreshCalls++
	// A real client fails on a dead context.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.refreshCookies, m.refreshErr
}

func (m *mockBackend) Login(_ context.Context, _ domain.Class, number string) (*domain.LoginIdentity, []*http.Cookie, error) {
	m.loginNumbers = append(m.loginNumbers, number)
	return m.loginIdentity, m.loginCookies, m.loginErr
}

func (m *mockBackend) Logout(_ context.Context, class domain.Class, _ domain.Credentials) error {
	m.logoutCalls++
	m.logoutClasses = append(m.logoutClasses, class)
	return nil
}

func (m *mockBackend) Register(_ context.Context, _ domain.Class, body []byte) ([]byte, int, error) {
	return body, http.StatusOK, nil
}

// mockProvider implements domain.OTPProvider for testing.
type mockProvider struct {
	challenge     domain.ChallengeHandle
	challengeErr  error
	challengeIDs  []string
	sessionToken  string
	submitErr     error
	submitCalls   int
	endedSessions []string
}

func (m *mockProvider) RequestChallenge(_ context.Context, identityID, _ string) (domain.ChallengeHandle, error) {
	m.challengeIDs = append(m.challengeIDs, identityID)
	return m.challenge, m.challengeErr
}

func (m *mockProvider) SubmitCode(_ context.Context, _ domain.ChallengeHandle, _, _ string) (string, error) {
	m.submitCalls++
	return m.sessionToken, m.submitErr
}

func (m *mockProvider) EndSession(_ context.Context, token string) error {
	m.endedSessions = append(m.endedSessions, token)
	return nil
}

// mockCache implements domain.ProfileCache for testing.
type mockCache struct {
	entries map[string]domain.Profile
	drops   []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.Profile)}
}

func (m *mockCache) key(class domain.Class, key string) string {
	return string(class) + "/" + key
}

func (m *mockCache) Get(class domain.Class, key string) (domain.Profile, bool) {
	if key == "" {
		return nil, false
	}
	p, ok := m.entries[m.key(class, key)]
	return p, ok
}

func (m *mockCache) Set(class domain.Class, key string, profile domain.Profile) {
	m.entries[m.key(class, key)] = profile
}

func (m *mockCache) Drop(class domain.Class, key string) {
	m.drops = append(m.drops, m.key(class, key))
	delete(m.entries, m.key(class, key))
}

func testCreds(t *testing.T, class domain.Class, cookies ...*http.Cookie) domain.Credentials {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return domain.CredentialsFromRequest(req, class)
}

func userCreds(t *testing.T) domain.Credentials {
	return testCreds(t, domain.ClassUser,
		&http.Cookie{Name: "AccessToken", Value: "access-1"},
		&http.Cookie{Name: "RefreshToken", Value: "refresh-1"},
	)
}

func momCreds(t *testing.T) domain.Credentials {
	return testCreds(t, domain.ClassMom,
		&http.Cookie{Name: "MomAccessToken", Value: "mom-access-1"},
		&http.Cookie{Name: "MomRefreshToken", Value: "mom-refresh-1"},
	)
}
