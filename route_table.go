package auth

import (
	"fmt"

	"github.com/goliatone/go-router"
)

// Route is a page together with its access requirement
type Route struct {
	Name        string           `json:"name"`
	Path        string           `json:"path"`
	Requirement RouteRequirement `json:"requirement"`
}

// DefaultRoutes is the page table of the travel web client
func DefaultRoutes(cfg Config) []Route {
	return []Route{
		{Name: "buses", Path: cfg.GetLandingRoute(), Requirement: Authenticated},
		{Name: "account", Path: cfg.GetAccountRoute(), Requirement: Authenticated},
		{Name: "login", Path: cfg.GetLoginRoute(), Requirement: PublicOnly},
		{Name: "register", Path: cfg.GetRegisterRoute(), Requirement: AdminPublic},
		{Name: "trips", Path: "/trips", Requirement: Authenticated},
		{Name: "trip-details", Path: "/trips/:id", Requirement: Authenticated},
		{Name: "trip-generator", Path: "/trip-generator", Requirement: Authenticated},
		{Name: "trip-review", Path: "/admin/trips", Requirement: AdminOnly},
	}
}

// RouteTable maps page names to requirements and hands out guards for them
type RouteTable struct {
	cfg    Config
	routes map[string]Route
	order  []string
	opts   []GuardOption
}

// NewRouteTable creates a table, later routes replace earlier ones by name
func NewRouteTable(cfg Config, routes []Route, opts ...GuardOption) *RouteTable {
	t := &RouteTable{
		cfg:    cfg,
		routes: map[string]Route{},
		opts:   opts,
	}
	for _, r := range routes {
		if _, ok := t.routes[r.Name]; !ok {
			t.order = append(t.order, r.Name)
		}
		t.routes[r.Name] = r
	}
	return t
}

// Routes returns the table in declaration order
func (t *RouteTable) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.routes[name])
	}
	return out
}

// Lookup returns the named route
func (t *RouteTable) Lookup(name string) (Route, bool) {
	r, ok := t.routes[name]
	return r, ok
}

// Guard returns the middleware for the named route. Unknown names are a
// wiring error.
func (t *RouteTable) Guard(name string) router.MiddlewareFunc {
	r, ok := t.routes[name]
	if !ok {
		panic(fmt.Sprintf("auth: route %q is not in the route table", name))
	}
	return Guard(t.cfg, r.Requirement, t.opts...)
}

// Path returns the path of the named route, or "/" when unknown
func (t *RouteTable) Path(name string) string {
	if r, ok := t.routes[name]; ok {
		return r.Path
	}
	return "/"
}

// Index sends authenticated visitors to the landing page and everyone else
// to login.
func (t *RouteTable) Index(c router.Context) error {
	store, _ := RequestSession(c, t.cfg)
	if _, ok := store.Get(); ok {
		return SendRedirect(c, t.cfg.GetLandingRoute())
	}
	return SendRedirect(c, t.cfg.GetLoginRoute())
}

// Mount registers handlers for every named route they provide, guarded by
// the table. The index route is always mounted.
func Mount[T any](app router.Router[T], table *RouteTable, handlers map[string]router.HandlerFunc) {
	app.Get("/", table.Index).SetName("index")

	for _, r := range table.Routes() {
		handler, ok := handlers[r.Name]
		if !ok {
			continue
		}
		app.Get(r.Path, handler, table.Guard(r.Name)).SetName(r.Name + ".get")
	}
}
