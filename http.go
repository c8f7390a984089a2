package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

const rejectedRouteTTL = time.Minute * 5

// RedirectContext is the subset of router.Context used to issue redirects
type RedirectContext interface {
	Method() string
	OriginalURL() string
	Cookies(key string, defaultValue ...string) string
	Cookie(cookie *router.Cookie)
	Redirect(location string, status ...int) error
}

// RedirectStatus is 302 for GET and 303 for any other method so that
// browsers never replay a form post against the new location.
func RedirectStatus(c RedirectContext) int {
	if strings.EqualFold(c.Method(), string(router.GET)) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

// SendRedirect redirects with RedirectStatus
func SendRedirect(c RedirectContext, location string) error {
	return c.Redirect(location, RedirectStatus(c))
}

// SetRedirect remembers the rejected page so login can return to it
func SetRedirect(c RedirectContext, cfg Config) {
	c.Cookie(&router.Cookie{
		Name:     cfg.GetRejectedRouteKey(),
		Value:    c.OriginalURL(),
		Path:     "/",
		Expires:  time.Now().Add(rejectedRouteTTL),
		HTTPOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}

// GetRedirect returns the remembered page, or def, and forgets it
func GetRedirect(c RedirectContext, cfg Config, def string) string {
	key := cfg.GetRejectedRouteKey()
	r := c.Cookies(key)
	if r == "" || !isLocalPath(r) {
		return def
	}
	cookieDel(c, key, cfg.GetCookieSecure())
	return r
}

// isLocalPath rejects absolute and protocol relative locations so the
// rejected route cookie can not be used as an open redirect
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func cookieDel(c RedirectContext, name string, secure bool) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
	})
}
