package auth

import (
	"maps"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-travel-auth/middleware/csrf"
)

var TemplateSessionKey = "session"

// SessionView is what views get to see about the current visitor
type SessionView struct {
	SessionSnapshot
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TemplateHelpers returns the session related template functions.
//
// Usage:
//
//	engine := django.New("./views", ".html")
//	for name, fn := range auth.TemplateHelpers() {
//	    engine.AddFunc(name, fn)
//	}
//
// In templates:
//
//	{% if is_authenticated(session) %}
//	{% if is_admin(session) %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"is_admin":         isAdmin,
		"is_expired":       isExpired,
	}
}

// SessionViewFromStore builds the view of the credential held by store
func SessionViewFromStore(store CredentialStore, opts ...SessionOption) SessionView {
	oracle := NewSessionOracle(store, opts...)
	view := SessionView{SessionSnapshot: oracle.Snapshot()}
	if claims, ok := oracle.Claims(); ok {
		view.Email = claims.Email
		view.Name = claims.Name
	}
	return view
}

// MergeTemplateData adds the session view and the form token of the
// current request to data
func MergeTemplateData(ctx router.Context, cfg Config, data router.ViewContext) router.ViewContext {
	out := router.ViewContext{}
	maps.Copy(out, csrf.TemplateData(ctx))
	maps.Copy(out, data)

	store, _ := RequestSession(ctx, cfg)
	out[TemplateSessionKey] = SessionViewFromStore(store)
	return out
}

func snapshotOf(v any) (SessionSnapshot, bool) {
	switch s := v.(type) {
	case SessionView:
		return s.SessionSnapshot, true
	case *SessionView:
		if s == nil {
			return SessionSnapshot{}, false
		}
		return s.SessionSnapshot, true
	case SessionSnapshot:
		return s, true
	case *SessionSnapshot:
		if s == nil {
			return SessionSnapshot{}, false
		}
		return *s, true
	default:
		return SessionSnapshot{}, false
	}
}

func isAuthenticated(v any) bool {
	snap, ok := snapshotOf(v)
	return ok && snap.Present
}

func isAdmin(v any) bool {
	snap, ok := snapshotOf(v)
	return ok && snap.Present && snap.Admin
}

func isExpired(v any) bool {
	snap, ok := snapshotOf(v)
	return !ok || snap.Expired
}
