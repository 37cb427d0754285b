package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// Outcome is the terminal state of one resolution run.
type Outcome string

const (
	OutcomeResolved        Outcome = "resolved"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeFailed          Outcome = "failed"
)

// Resolution is the settled result for one identity class. SetCookies
// are backend Set-Cookie side effects to relay to the browser;
// ClearClass asks the caller to expire the class's cookie slots.
type Resolution struct {
	Outcome    Outcome
	Profile    domain.Profile
	SetCookies []*http.Cookie
	ClearClass bool
}

// Authenticated reports whether the run settled on an active session.
func (r Resolution) Authenticated() bool {
	return r.Outcome == OutcomeResolved
}

// ResolveSession establishes or invalidates the active profile for an
// identity class: profile fetch, then on an expired access credential a
// refresh and exactly one retry. Every failure path ends logged out;
// no path leaves the class in a half-resolved state.
type ResolveSession struct {
	backend domain.BackendGateway
	cache   domain.ProfileCache
	discard *Logout
	rec     metrics.Recorder
	logger  *slog.Logger

	// Coalesces concurrent refreshes holding the same refresh credential.
	refreshGroup singleflight.Group
}

// NewResolveSession creates a new ResolveSession usecase.
func NewResolveSession(b domain.BackendGateway, c domain.ProfileCache, discard *Logout, rec metrics.Recorder, l *slog.Logger) *ResolveSession {
	return &ResolveSession{backend: b, cache: c, discard: discard, rec: rec, logger: l}
}

// Execute resolves the class session carried by creds.
func (uc *ResolveSession) Execute(ctx context.Context, class domain.Class, creds domain.Credentials) Resolution {
	start := time.Now()
	res := uc.resolve(ctx, class, creds)
	uc.rec.RecordResolution(string(class), string(res.Outcome))
	uc.rec.RecordResolutionLatency(string(class), time.Since(start))
	return res
}

func (uc *ResolveSession) resolve(ctx context.Context, class domain.Class, creds domain.Credentials) Resolution {
	// No credentials at all: anonymous, no network call.
	if creds.Empty() {
		return Resolution{Outcome: OutcomeUnauthenticated}
	}

	if profile, found := uc.cache.Get(class, creds.CacheKey()); found {
		return Resolution{Outcome: OutcomeResolved, Profile: profile}
	}

	profile, cookies, err := uc.backend.FetchProfile(ctx, class, creds)
	if err == nil {
		uc.cache.Set(class, creds.CacheKey(), profile)
		return Resolution{Outcome: OutcomeResolved, Profile: profile, SetCookies: cookies}
	}

	switch {
	case errors.Is(err, domain.ErrEmptyProfile):
		// 2xx with no payload: anomalous, treat as no session.
		uc.logger.WarnContext(ctx, "profile fetch returned empty payload", "class", class)
		uc.discard.Execute(ctx, class, creds)
		return Resolution{Outcome: OutcomeUnauthenticated, ClearClass: true}

	case errors.Is(err, domain.ErrAuthExpired):
		return uc.refreshAndRetry(ctx, class, creds)

	default:
		uc.logger.ErrorContext(ctx, "profile fetch failed", "class", class, "error", err)
		uc.discard.Execute(ctx, class, creds)
		return Resolution{Outcome: OutcomeFailed, ClearClass: true}
	}
}

// refreshAndRetry runs the refresh protocol and retries the profile
// fetch exactly once. A second expired-credential answer is terminal.
func (uc *ResolveSession) refreshAndRetry(ctx context.Context, class domain.Class, creds domain.Credentials) Resolution {
	refreshed, err := uc.refresh(ctx, class, creds)
	uc.rec.RecordRefresh(string(class), err == nil)
	if err != nil {
		uc.logger.InfoContext(ctx, "token refresh failed, logging out", "class", class, "error", err)
		uc.discard.Execute(ctx, class, creds)
		return Resolution{Outcome: OutcomeUnauthenticated, ClearClass: true}
	}

	retryCreds := creds.Merged(refreshed)
	profile, cookies, err := uc.backend.FetchProfile(ctx, class, retryCreds)
	if err != nil {
		uc.logger.InfoContext(ctx, "profile fetch failed after refresh", "class", class, "error", err)
		uc.discard.Execute(ctx, class, retryCreds)
		return Resolution{Outcome: OutcomeUnauthenticated, ClearClass: true}
	}

	uc.cache.Set(class, retryCreds.CacheKey(), profile)
	return Resolution{
		Outcome:    OutcomeResolved,
		Profile:    profile,
		SetCookies: append(refreshed, cookies...),
	}
}

func (uc *ResolveSession) refresh(ctx context.Context, class domain.Class, creds domain.Credentials) ([]*http.Cookie, error) {
	key := string(class) + ":" + creds.RefreshKey()
	// The refresh is shared across coalesced requests. Detach it from the
	// winning caller so one canceled request cannot fail the waiters; the
	// backend client's timeout still bounds the call.
	refreshCtx := context.WithoutCancel(ctx)
	v, err, _ := uc.refreshGroup.Do(key, func() (any, error) {
		return uc.backend.Refresh(refreshCtx, class, creds)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*http.Cookie), nil
}
