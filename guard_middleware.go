package auth

import (
	"time"

	"github.com/goliatone/go-router"
)

const (
	localsStoreKey     = "auth:credential_store"
	localsNavigatorKey = "auth:navigator"
)

type guard struct {
	cfg    Config
	req    RouteRequirement
	logger Logger
	now    func() time.Time
}

type GuardOption func(*guard)

// WithGuardLogger sets the logger used to report redirects
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGuardClock sets the clock handed to the session oracle
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *guard) {
		if now != nil {
			g.now = now
		}
	}
}

// Guard gates a page on req. The decision is recomputed from the request
// cookie on every navigation.
//
// On render the request scoped store and navigator are exposed through
// RequestSession, a redirect requested by the gateway while the handler
// runs is sent once the handler returns.
func Guard(cfg Config, req RouteRequirement, opts ...GuardOption) router.MiddlewareFunc {
	g := &guard{
		cfg:    cfg,
		req:    req,
		logger: defLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			store := NewCookieStore(c, g.cfg)
			oracle := NewSessionOracle(store, WithClock(g.now), WithSessionLogger(g.logger))

			decision := Evaluate(g.req, oracle.Snapshot(), GuardRoutesFromConfig(g.cfg))
			if decision.Outcome == Redirect {
				g.logger.Debug("guard redirect", "path", c.Path(), "location", decision.Location)
				return g.redirect(c, decision.Location)
			}

			navigator := NewRequestNavigator(c.Path())
			c.Locals(localsStoreKey, store)
			c.Locals(localsNavigatorKey, navigator)

			err := next(c)

			if location, ok := navigator.Pending(); ok {
				g.logger.Info("session ended during request, redirecting", "path", c.Path(), "location", location)
				return g.redirect(c, location)
			}

			return err
		}
	}
}

func (g *guard) redirect(c router.Context, location string) error {
	if location == g.cfg.GetLoginRoute() && (g.req.RequireAuth || g.req.RequireAdmin) {
		SetRedirect(c, g.cfg)
	}
	return SendRedirect(c, location)
}

// RequestSession returns the store and navigator bound to the current
// request. Outside a guarded route a fresh pair is created, redirects
// collected by that navigator are left to the caller.
func RequestSession(c router.Context, cfg Config) (CredentialStore, Navigator) {
	store, ok := c.Locals(localsStoreKey).(CredentialStore)
	if !ok || store == nil {
		store = NewCookieStore(c, cfg)
	}

	navigator, ok := c.Locals(localsNavigatorKey).(Navigator)
	if !ok || navigator == nil {
		navigator = NewRequestNavigator(c.Path())
	}

	return store, navigator
}
