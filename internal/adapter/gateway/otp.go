package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"momskitchen-hub/internal/domain"

	kratos "github.com/ory/kratos-client-go"
)

// OTPProvider implements domain.OTPProvider on the provider's native
// one-time-code login flow. The provider owns all challenge state; the
// gateway keeps only the flow id as a ChallengeHandle.
type OTPProvider struct {
	client  *kratos.APIClient
	timeout time.Duration
}

// NewOTPProvider creates a provider client with tuned HTTP transport.
func NewOTPProvider(baseURL string, timeout time.Duration) *OTPProvider {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	configuration.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	return &OTPProvider{
		client:  kratos.NewAPIClient(configuration),
		timeout: timeout,
	}
}

// RequestChallenge starts a code login flow for the phone number and
// asks the provider to dispatch the one-time code.
func (p *OTPProvider) RequestChallenge(ctx context.Context, identityID, number string) (domain.ChallengeHandle, error) {
	if identityID == "" || number == "" {
		return domain.ChallengeHandle{}, fmt.Errorf("%w: identity id and number required", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	flow, resp, err := p.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return domain.ChallengeHandle{}, providerError(resp, err)
	}

	body := kratos.UpdateLoginFlowWithCodeMethodAsUpdateLoginFlowBody(&kratos.UpdateLoginFlowWithCodeMethod{
		Method:     "code",
		CsrfToken:  "",
		Identifier: kratos.PtrString(number),
	})

	// Submitting the identifier advances the flow to code entry; the
	// provider answers 400 while the flow is mid-state, which still
	// means the code was dispatched.
	_, resp, err = p.client.FrontendAPI.UpdateLoginFlow(ctx).Flow(flow.Id).UpdateLoginFlowBody(body).Execute()
	if err != nil && (resp == nil || resp.StatusCode != http.StatusBadRequest) {
		return domain.ChallengeHandle{}, providerError(resp, err)
	}

	return domain.ChallengeHandle{FlowID: flow.Id}, nil
}

// SubmitCode exchanges the one-time code for a provider session token.
// Every provider failure is collapsed into a verification failure; the
// raw error never reaches the UI.
func (p *OTPProvider) SubmitCode(ctx context.Context, challenge domain.ChallengeHandle, number, code string) (string, error) {
	if challenge.FlowID == "" || code == "" {
		return "", fmt.Errorf("%w: challenge and code required", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body := kratos.UpdateLoginFlowWithCodeMethodAsUpdateLoginFlowBody(&kratos.UpdateLoginFlowWithCodeMethod{
		Method:     "code",
		CsrfToken:  "",
		Identifier: kratos.PtrString(number),
		Code:       kratos.PtrString(code),
	})

	login, _, err := p.client.FrontendAPI.UpdateLoginFlow(ctx).Flow(challenge.FlowID).UpdateLoginFlowBody(body).Execute()
	if err != nil {
		return "", fmt.Errorf("%w: verification failed", domain.ErrProvider)
	}
	if login.SessionToken == nil || *login.SessionToken == "" {
		return "", fmt.Errorf("%w: verification failed", domain.ErrProvider)
	}
	return *login.SessionToken, nil
}

// EndSession revokes the provider session. Callers treat failures as
// non-fatal; local logout proceeds regardless.
func (p *OTPProvider) EndSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratos.PerformNativeLogoutBody{SessionToken: sessionToken}).
		Execute()
	if err != nil {
		return providerError(resp, err)
	}
	return nil
}

func providerError(resp *http.Response, err error) error {
	if resp != nil {
		return fmt.Errorf("%w: provider returned status %d: %w", domain.ErrProvider, resp.StatusCode, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrProvider, err)
}
