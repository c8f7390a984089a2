package auth

// RouteRequirement is the static access descriptor of a page
type RouteRequirement struct {
	RequireAuth  bool `json:"require_auth"`
	RequireAdmin bool `json:"require_admin"`
}

var (
	// PublicOnly pages such as login are hidden from authenticated users
	PublicOnly = RouteRequirement{}
	// Authenticated pages need a credential
	Authenticated = RouteRequirement{RequireAuth: true}
	// AdminOnly pages need a credential with the admin claim
	AdminOnly = RouteRequirement{RequireAuth: true, RequireAdmin: true}
	// AdminPublic is the registration style page: nominally public but
	// still requires an admin credential
	AdminPublic = RouteRequirement{RequireAdmin: true}
)

// Outcome is the terminal state of a guard evaluation
type Outcome int

const (
	Render Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is what the guard wants done with a navigation
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
}

// GuardRoutes are the redirect targets used by Evaluate
type GuardRoutes struct {
	Login   string
	Account string
}

// GuardRoutesFromConfig reads the redirect targets from cfg
func GuardRoutesFromConfig(cfg Config) GuardRoutes {
	return GuardRoutes{
		Login:   cfg.GetLoginRoute(),
		Account: cfg.GetAccountRoute(),
	}
}

func render() Decision {
	return Decision{Outcome: Render}
}

func redirectTo(location string) Decision {
	return Decision{Outcome: Redirect, Location: location}
}

// Evaluate decides whether a page renders or redirects. Authenticated means
// a credential is present, expiry is left to the request gateway.
//
// The RequireAuth=false, RequireAdmin=true branch is distinct on purpose: it
// still demands a credential, then checks the admin claim.
func Evaluate(req RouteRequirement, snap SessionSnapshot, routes GuardRoutes) Decision {
	if req.RequireAuth {
		if !snap.Present {
			return redirectTo(routes.Login)
		}
		if req.RequireAdmin && !snap.Admin {
			return redirectTo(routes.Account)
		}
		return render()
	}

	if req.RequireAdmin {
		if !snap.Present {
			return redirectTo(routes.Login)
		}
		if snap.Admin {
			return render()
		}
		return redirectTo(routes.Account)
	}

	if snap.Present {
		return redirectTo(routes.Account)
	}
	return render()
}
