package middleware

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/infrastructure/state"
	"momskitchen-hub/internal/usecase"
)

const sessionStateKey = "momskitchen.sessionState"

// ResolveSessions settles both identity classes before routing. The two
// resolutions touch disjoint cookie slots and state slices, so they run
// concurrently. Guards downstream only read the settled state.
func ResolveSessions(resolver *usecase.ResolveSession) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			st := state.New()

			userCreds := domain.CredentialsFromRequest(req, domain.ClassUser)
			momCreds := domain.CredentialsFromRequest(req, domain.ClassMom)

			var userRes, momRes usecase.Resolution
			g, gctx := errgroup.WithContext(req.Context())
			g.Go(func() error {
				userRes = resolver.Execute(gctx, domain.ClassUser, userCreds)
				return nil
			})
			g.Go(func() error {
				momRes = resolver.Execute(gctx, domain.ClassMom, momCreds)
				return nil
			})
			_ = g.Wait()

			applyResolution(c, st, domain.ClassUser, userRes)
			applyResolution(c, st, domain.ClassMom, momRes)

			c.Set(sessionStateKey, st)
			return next(c)
		}
	}
}

func applyResolution(c echo.Context, st *state.SessionState, class domain.Class, res usecase.Resolution) {
	if res.Authenticated() {
		st.Login(class, res.Profile)
	}
	for _, ck := range res.SetCookies {
		c.SetCookie(ck)
	}
	if res.ClearClass {
		for _, ck := range domain.ExpiredCookies(class) {
			c.SetCookie(ck)
		}
	}
}

// SessionFromContext returns the settled session state. A route reached
// without the resolver sees both classes logged out.
func SessionFromContext(c echo.Context) *state.SessionState {
	if st, ok := c.Get(sessionStateKey).(*state.SessionState); ok {
		return st
	}
	return state.New()
}

// WithSessionState injects a pre-built state, bypassing resolution.
// Used by tests.
func WithSessionState(c echo.Context, st *state.SessionState) {
	c.Set(sessionStateKey, st)
}
