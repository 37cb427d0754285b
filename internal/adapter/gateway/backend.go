package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"momskitchen-hub/internal/domain"
)

const gatewayTokenHeader = "X-Gateway-Token"

// Backend implements domain.BackendGateway against the marketplace REST
// API. Credentials travel as opaque cookies; a 401 on the profile fetch
// is the only status treated as an expired access credential.
type Backend struct {
	baseURL      string
	httpClient   *http.Client
	serviceToken domain.ServiceTokenIssuer
	timeout      time.Duration
}

// NewBackend creates a backend client with tuned HTTP transport.
// serviceToken may be nil when gateway self-identification is disabled.
func NewBackend(baseURL string, timeout time.Duration, serviceToken domain.ServiceTokenIssuer) *Backend {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Backend{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		serviceToken: serviceToken,
		timeout:      timeout,
	}
}

func classSegment(class domain.Class) string {
	if class == domain.ClassMom {
		return "moms"
	}
	return "users"
}

func profilePath(class domain.Class) string {
	if class == domain.ClassMom {
		return "/moms/current-mom"
	}
	return "/users/user"
}

func (b *Backend) newRequest(ctx context.Context, method, path string, body io.Reader, creds *domain.Credentials) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		creds.Attach(req)
	}
	if b.serviceToken != nil {
		if token, err := b.serviceToken.Issue(); err == nil {
			req.Header.Set(gatewayTokenHeader, token)
		}
	}
	return req, nil
}

// FetchProfile retrieves the class's "who am I" resource.
func (b *Backend) FetchProfile(ctx context.Context, class domain.Class, creds domain.Credentials) (domain.Profile, []*http.Cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := b.newRequest(ctx, http.MethodGet, profilePath(class), nil, &creds)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.Cookies(), domain.ErrAuthExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.Cookies(), fmt.Errorf("%w: profile fetch returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Cookies(), fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	profile, err := decodeProfile(class, body)
	if err != nil {
		return nil, resp.Cookies(), err
	}
	return profile, resp.Cookies(), nil
}

// Refresh calls the class refresh endpoint. Success is inferred purely
// from HTTP-level success; the new access credential arrives as cookies.
func (b *Backend) Refresh(ctx context.Context, class domain.Class, creds domain.Credentials) ([]*http.Cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := b.newRequest(ctx, http.MethodPost, "/"+classSegment(class)+"/refreshing", nil, &creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: refresh returned status %d", domain.ErrAuthRejected, resp.StatusCode)
	}
	return resp.Cookies(), nil
}

type loginRequest struct {
	Number string `json:"number"`
}

type loginEnvelope struct {
	Data struct {
		User *domain.LoginIdentity `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

// Login submits a phone number; on success the backend sets the class
// token pair as cookies and returns the pre-verification identity.
func (b *Backend) Login(ctx context.Context, class domain.Class, number string) (*domain.LoginIdentity, []*http.Cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	payload, err := json.Marshal(loginRequest{Number: number})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	req, err := b.newRequest(ctx, http.MethodPost, "/"+classSegment(class)+"/login", bytes.NewReader(payload), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	var envelope loginEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && resp.StatusCode < 300 {
		return nil, resp.Cookies(), fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("login returned status %d", resp.StatusCode)
		}
		return nil, resp.Cookies(), fmt.Errorf("%w: %s", domain.ErrAuthRejected, msg)
	}

	if envelope.Data.User == nil || envelope.Data.User.ID == "" {
		return nil, resp.Cookies(), fmt.Errorf("%w: login response missing identity", domain.ErrBackendUnavailable)
	}
	return envelope.Data.User, resp.Cookies(), nil
}

// Logout invalidates the class session server-side.
func (b *Backend) Logout(ctx context.Context, class domain.Class, creds domain.Credentials) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := b.newRequest(ctx, http.MethodPost, "/"+classSegment(class)+"/logout", nil, &creds)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: logout returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}

// Register passes a signup payload through to the backend.
func (b *Backend) Register(ctx context.Context, class domain.Class, body []byte) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := b.newRequest(ctx, http.MethodPost, "/"+classSegment(class)+"/register", bytes.NewReader(body), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	return respBody, resp.StatusCode, nil
}

// decodeProfile unwraps the backend's response envelope and decodes the
// class-specific profile shape. An empty or id-less payload is anomalous
// and reported as ErrEmptyProfile.
func decodeProfile(class domain.Class, body []byte) (domain.Profile, error) {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, domain.ErrEmptyProfile
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	for _, key := range []string{"data", "userData", "momData"} {
		if inner, ok := envelope[key]; ok {
			raw = inner
			break
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, domain.ErrEmptyProfile
	}

	switch class {
	case domain.ClassMom:
		var profile domain.MomProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
		}
		if profile.ID == "" {
			return nil, domain.ErrEmptyProfile
		}
		return &profile, nil
	default:
		var profile domain.UserProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
		}
		if profile.ID == "" {
			return nil, domain.ErrEmptyProfile
		}
		return &profile, nil
	}
}
