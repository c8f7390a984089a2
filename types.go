package auth

import (
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds session and routing options
type Config interface {
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetCookieRetentionDays() int
	GetCookieSecure() bool
	GetLoginRoute() string
	GetRegisterRoute() string
	GetAccountRoute() string
	GetLandingRoute() string
	GetRejectedRouteKey() string
	GetLoginEndpoint() string
	GetRegisterEndpoint() string
	GetProfileEndpoint() string
	GetRedirectDelay() time.Duration
	GetAPIBaseURL() string
}

// SessionSnapshot is the point in time view of the stored credential.
// It is recomputed on every decision and never stored.
type SessionSnapshot struct {
	Present bool `json:"present"`
	Expired bool `json:"expired"`
	Admin   bool `json:"admin"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	d.print("ERR", format, args...)
}

func (d defLogger) Info(format string, args ...any) {
	d.print("INF", format, args...)
}

func (d defLogger) Debug(format string, args ...any) {
	d.print("DBG", format, args...)
}

// print accepts both printf style formats and slog style key/value pairs
func (d defLogger) print(level, format string, args ...any) {
	prefix := "[" + level + "] AUTH "
	if strings.Contains(format, "%") || len(args) == 0 {
		fmt.Printf(prefix+newline(format), args...)
		return
	}

	var b strings.Builder
	b.WriteString(format)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	fmt.Print(prefix + newline(b.String()))
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
