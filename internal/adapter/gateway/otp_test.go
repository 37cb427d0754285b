package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"momskitchen-hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProvider(t *testing.T, verifyStatus int) *httptest.Server {
	t.Helper()
	now := time.Now()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/self-service/login/api":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":          "flow-1",
				"type":        "api",
				"expires_at":  now.Add(10 * time.Minute),
				"issued_at":   now,
				"request_url": "http://provider/self-service/login/api",
				"state":       "choose_method",
				"ui": map[string]any{
					"action": "http://provider/self-service/login?flow=flow-1",
					"method": "POST",
					"nodes":  []any{},
				},
			})
		case r.URL.Path == "/self-service/login":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			if _, hasCode := body["code"]; !hasCode {
				// Identifier submit: flow advances, code dispatched.
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"id": "session_flow_expired"}})
				return
			}
			if verifyStatus != http.StatusOK {
				w.WriteHeader(verifyStatus)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "invalid code"}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"session_token": "provider-session-token",
				"session": map[string]any{
					"id": "sess-1",
				},
			})
		case r.URL.Path == "/self-service/logout/api":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRequestChallenge_ReturnsFlowHandle(t *testing.T) {
	server := fakeProvider(t, http.StatusOK)
	defer server.Close()

	p := NewOTPProvider(server.URL, 5*time.Second)

	handle, err := p.RequestChallenge(context.Background(), "u-1", "+919876543210")

	require.NoError(t, err)
	assert.Equal(t, "flow-1", handle.FlowID)
}

func TestRequestChallenge_RequiresIdentity(t *testing.T) {
	p := NewOTPProvider("http://provider", 5*time.Second)

	_, err := p.RequestChallenge(context.Background(), "", "+919876543210")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitCode_ReturnsSessionToken(t *testing.T) {
	server := fakeProvider(t, http.StatusOK)
	defer server.Close()

	p := NewOTPProvider(server.URL, 5*time.Second)

	token, err := p.SubmitCode(context.Background(), domain.ChallengeHandle{FlowID: "flow-1"}, "+919876543210", "123456")

	require.NoError(t, err)
	assert.Equal(t, "provider-session-token", token)
}

func TestSubmitCode_FailureIsCollapsed(t *testing.T) {
	server := fakeProvider(t, http.StatusBadRequest)
	defer server.Close()

	p := NewOTPProvider(server.URL, 5*time.Second)

	_, err := p.SubmitCode(context.Background(), domain.ChallengeHandle{FlowID: "flow-1"}, "+919876543210", "000000")

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.NotContains(t, err.Error(), "invalid code", "raw provider errors must not surface")
}

func TestSubmitCode_RequiresCode(t *testing.T) {
	p := NewOTPProvider("http://provider", 5*time.Second)

	_, err := p.SubmitCode(context.Background(), domain.ChallengeHandle{FlowID: "flow-1"}, "+919876543210", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEndSession_EmptyTokenIsNoop(t *testing.T) {
	p := NewOTPProvider("http://provider", 5*time.Second)

	assert.NoError(t, p.EndSession(context.Background(), ""))
}
