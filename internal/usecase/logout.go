package usecase

import (
	"context"
	"log/slog"

	"momskitchen-hub/internal/domain"
)

// Logout tears down one identity class's session: provider session
// revoke, backend logout and cache eviction. Every step is best effort;
// local state must end up logged out no matter what the collaborators
// answer, so failures are logged and swallowed.
type Logout struct {
	backend  domain.BackendGateway
	provider domain.OTPProvider
	cache    domain.ProfileCache
	logger   *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(b domain.BackendGateway, p domain.OTPProvider, c domain.ProfileCache, l *slog.Logger) *Logout {
	return &Logout{backend: b, provider: p, cache: c, logger: l}
}

// Execute logs the class out. The caller is responsible for clearing the
// class's cookie slots on the response and its state slice.
func (uc *Logout) Execute(ctx context.Context, class domain.Class, creds domain.Credentials) {
	if token := creds.ProviderSession(); token != "" {
		if err := uc.provider.EndSession(ctx, token); err != nil {
			uc.logger.WarnContext(ctx, "provider session revoke failed",
				"class", class,
				"error", err)
		}
	}

	if !creds.Empty() {
		if err := uc.backend.Logout(ctx, class, creds); err != nil {
			uc.logger.WarnContext(ctx, "backend logout failed",
				"class", class,
				"error", err)
		}
	}

	uc.cache.Drop(class, creds.CacheKey())
}
