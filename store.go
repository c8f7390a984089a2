package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-router"
)

// CredentialStore holds the single bearer credential for a session.
// The retention passed to Set is a coarse cleanup window for the stored
// copy and is independent of the credential's own exp claim.
type CredentialStore interface {
	Get() (string, bool)
	Set(token string, ttlDays int)
	Remove()
}

func retention(ttlDays int) time.Duration {
	if ttlDays <= 0 {
		ttlDays = DefaultRetentionDays
	}
	return time.Duration(ttlDays) * 24 * time.Hour
}

var _ CredentialStore = &MemoryStore{}

// MemoryStore keeps the credential in process memory
type MemoryStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// WithClock overrides the clock used to apply the retention window
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", false
	}
	if !s.expiresAt.IsZero() && !s.clock().Before(s.expiresAt) {
		return "", false
	}
	return s.token, true
}

func (s *MemoryStore) Set(token string, ttlDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		s.token = ""
		s.expiresAt = time.Time{}
		return
	}
	s.token = token
	s.expiresAt = s.clock().Add(retention(ttlDays))
}

func (s *MemoryStore) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *MemoryStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// CookieJar is the subset of router.Context the cookie store needs
type CookieJar interface {
	Cookies(key string, defaultValue ...string) string
	Cookie(cookie *router.Cookie)
	GetString(key string, defaultValue string) string
	Query(key string, defaultValue ...string) string
}

var _ CredentialStore = &CookieStore{}

// CookieStore is a request scoped store that reads the credential from the
// incoming request and writes it back as a response cookie.
type CookieStore struct {
	jar        CookieJar
	name       string
	secure     bool
	extractors []credentialExtractor
	// written tracks Set/Remove calls so reads in the same request observe them
	written *string
}

// NewCookieStore binds a store to the current request
func NewCookieStore(jar CookieJar, cfg Config) *CookieStore {
	return &CookieStore{
		jar:        jar,
		name:       cfg.GetContextKey(),
		secure:     cfg.GetCookieSecure(),
		extractors: getExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme()),
	}
}

func (s *CookieStore) Get() (string, bool) {
	if s.written != nil {
		return *s.written, *s.written != ""
	}
	for _, extract := range s.extractors {
		if token := extract(s.jar); token != "" {
			return token, true
		}
	}
	return "", false
}

func (s *CookieStore) Set(token string, ttlDays int) {
	if token == "" {
		s.Remove()
		return
	}
	s.jar.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(retention(ttlDays)),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
	s.written = &token
}

func (s *CookieStore) Remove() {
	s.jar.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
	empty := ""
	s.written = &empty
}

type credentialExtractor func(jar CookieJar) string

// getExtractors parses a lookup such as "cookie:token,header:Authorization,query:auth_token"
func getExtractors(lookup string, authScheme string) []credentialExtractor {
	extractors := make([]credentialExtractor, 0)

	for _, rootPart := range strings.Split(lookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}
		source, key := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

		switch source {
		case "cookie":
			extractors = append(extractors, fromCookie(key))
		case "header":
			extractors = append(extractors, fromHeader(key, authScheme))
		case "query":
			extractors = append(extractors, fromQuery(key))
		}
	}

	return extractors
}

func fromCookie(name string) credentialExtractor {
	return func(jar CookieJar) string {
		return jar.Cookies(name)
	}
}

func fromHeader(header, authScheme string) credentialExtractor {
	authScheme = strings.TrimSpace(authScheme)
	return func(jar CookieJar) string {
		val := jar.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			return strings.TrimSpace(val)
		}
		if len(val) > l+1 && strings.EqualFold(val[:l], authScheme) {
			return strings.TrimSpace(val[l:])
		}
		return ""
	}
}

func fromQuery(param string) credentialExtractor {
	return func(jar CookieJar) string {
		return jar.Query(param, "")
	}
}
