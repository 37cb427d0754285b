package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/infrastructure/phone"
	"momskitchen-hub/internal/metrics"
)

const otpCodeLength = 6

// LoginFlow is the OTP login flow, parameterized by identity class so
// the user and mom flows cannot drift apart.
type LoginFlow struct {
	backend    domain.BackendGateway
	provider   domain.OTPProvider
	normalizer *phone.Normalizer
	logout     *Logout
	rec        metrics.Recorder
	logger     *slog.Logger
}

// NewLoginFlow creates a new LoginFlow usecase.
func NewLoginFlow(b domain.BackendGateway, p domain.OTPProvider, n *phone.Normalizer, lo *Logout, rec metrics.Recorder, l *slog.Logger) *LoginFlow {
	return &LoginFlow{backend: b, provider: p, normalizer: n, logout: lo, rec: rec, logger: l}
}

// ChallengeResult is the outcome of a successful phone submission.
// SetCookies carry the class token pair the backend minted; they stay
// provisional until the code is verified.
type ChallengeResult struct {
	IdentityID string
	Number     string
	Challenge  domain.ChallengeHandle
	SetCookies []*http.Cookie
}

// SubmitPhone validates and normalizes the number, establishes the
// backend session and asks the provider to dispatch a one-time code.
func (uc *LoginFlow) SubmitPhone(ctx context.Context, class domain.Class, rawNumber string) (*ChallengeResult, error) {
	number, err := uc.normalizer.Normalize(rawNumber)
	if err != nil {
		return nil, err
	}

	identity, cookies, err := uc.backend.Login(ctx, class, number)
	if err != nil {
		uc.rec.RecordLogin(string(class), false)
		return nil, err
	}

	challenge, err := uc.provider.RequestChallenge(ctx, identity.ID, number)
	if err != nil {
		uc.rec.RecordLogin(string(class), false)
		uc.logger.WarnContext(ctx, "otp challenge request failed", "class", class, "error", err)
		return nil, err
	}

	uc.rec.RecordLogin(string(class), true)
	return &ChallengeResult{
		IdentityID: identity.ID,
		Number:     number,
		Challenge:  challenge,
		SetCookies: cookies,
	}, nil
}

// VerifyResult is the outcome of a successful code verification.
type VerifyResult struct {
	Profile              domain.Profile
	SetCookies           []*http.Cookie
	ProviderSessionToken string
}

// VerifyCode exchanges the one-time code for a provider session and
// settles the login. A failed verification logs the provisional backend
// session out so no stale partial session survives.
func (uc *LoginFlow) VerifyCode(ctx context.Context, class domain.Class, challenge domain.ChallengeHandle, rawNumber, code string, creds domain.Credentials) (*VerifyResult, error) {
	if len(code) != otpCodeLength {
		return nil, fmt.Errorf("%w: code must have %d digits", domain.ErrValidation, otpCodeLength)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: code must contain digits only", domain.ErrValidation)
		}
	}

	number, err := uc.normalizer.Normalize(rawNumber)
	if err != nil {
		return nil, err
	}

	token, err := uc.provider.SubmitCode(ctx, challenge, number, code)
	if err != nil {
		uc.rec.RecordOTPVerification(string(class), false)
		uc.logout.Execute(ctx, class, creds)
		return nil, fmt.Errorf("%w: invalid code", domain.ErrAuthRejected)
	}
	uc.rec.RecordOTPVerification(string(class), true)

	profile, cookies, err := uc.backend.FetchProfile(ctx, class, creds)
	if err != nil {
		uc.logger.WarnContext(ctx, "profile fetch after verification failed", "class", class, "error", err)
		uc.logout.Execute(ctx, class, creds)
		return nil, fmt.Errorf("%w: session could not be established", domain.ErrAuthRejected)
	}

	return &VerifyResult{
		Profile:              profile,
		SetCookies:           cookies,
		ProviderSessionToken: token,
	}, nil
}
