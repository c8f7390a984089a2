package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-travel-auth"
	"github.com/stretchr/testify/assert"
)

var testRoutes = auth.GuardRoutes{Login: "/login", Account: "/account"}

func TestEvaluate(t *testing.T) {
	var (
		anonymous = auth.SessionSnapshot{Expired: true}
		user      = auth.SessionSnapshot{Present: true}
		admin     = auth.SessionSnapshot{Present: true, Admin: true}
	)

	render := auth.Decision{Outcome: auth.Render}
	toLogin := auth.Decision{Outcome: auth.Redirect, Location: "/login"}
	toAccount := auth.Decision{Outcome: auth.Redirect, Location: "/account"}

	tests := []struct {
		name string
		req  auth.RouteRequirement
		snap auth.SessionSnapshot
		want auth.Decision
	}{
		{name: "authenticated page, anonymous", req: auth.Authenticated, snap: anonymous, want: toLogin},
		{name: "authenticated page, user", req: auth.Authenticated, snap: user, want: render},
		{name: "authenticated page, admin", req: auth.Authenticated, snap: admin, want: render},

		{name: "admin page, anonymous", req: auth.AdminOnly, snap: anonymous, want: toLogin},
		{name: "admin page, user", req: auth.AdminOnly, snap: user, want: toAccount},
		{name: "admin page, admin", req: auth.AdminOnly, snap: admin, want: render},

		{name: "register page, anonymous", req: auth.AdminPublic, snap: anonymous, want: toLogin},
		{name: "register page, user", req: auth.AdminPublic, snap: user, want: toAccount},
		{name: "register page, admin", req: auth.AdminPublic, snap: admin, want: render},

		{name: "public page, anonymous", req: auth.PublicOnly, snap: anonymous, want: render},
		{name: "public page, user", req: auth.PublicOnly, snap: user, want: toAccount},
		{name: "public page, admin", req: auth.PublicOnly, snap: admin, want: toAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.Evaluate(tt.req, tt.snap, testRoutes))
		})
	}
}

func TestEvaluate_ExpiryIsNotChecked(t *testing.T) {
	expired := auth.SessionSnapshot{Present: true, Expired: true}

	got := auth.Evaluate(auth.Authenticated, expired, testRoutes)
	assert.Equal(t, auth.Render, got.Outcome)

	got = auth.Evaluate(auth.PublicOnly, expired, testRoutes)
	assert.Equal(t, auth.Redirect, got.Outcome)
	assert.Equal(t, "/account", got.Location)
}

func TestGuardRoutesFromConfig(t *testing.T) {
	opts := auth.DefaultOptions()
	opts.LoginRoute = "/signin"
	opts.AccountRoute = "/me"

	assert.Equal(t, auth.GuardRoutes{Login: "/signin", Account: "/me"}, auth.GuardRoutesFromConfig(opts))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "render", auth.Render.String())
	assert.Equal(t, "redirect", auth.Redirect.String())
	assert.Equal(t, "unknown", auth.Outcome(7).String())
}
