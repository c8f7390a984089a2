package auth_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

// mintToken signs claims with a throwaway key, signatures are never checked
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func validToken(t *testing.T, admin bool) string {
	return mintToken(t, jwt.MapClaims{
		"sub":   "17",
		"email": "ana@example.com",
		"name":  "Ana",
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}

func expiredToken(t *testing.T) string {
	return mintToken(t, jwt.MapClaims{
		"sub": "17",
		"exp": time.Now().Add(-time.Second).Unix(),
	})
}

// rawToken builds header.payload.signature around an arbitrary payload
func rawToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

// recordingNavigator records every redirect it is asked for
type recordingNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
}

func (n *recordingNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, path)
}

func (n *recordingNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.visits...)
}

// fakeJar is an in memory request/response cookie pair
type fakeJar struct {
	cookies map[string]string
	headers map[string]string
	queries map[string]string
	written []*router.Cookie
}

func newFakeJar() *fakeJar {
	return &fakeJar{
		cookies: map[string]string{},
		headers: map[string]string{},
		queries: map[string]string{},
	}
}

func (j *fakeJar) Cookies(key string, defaultValue ...string) string {
	if v, ok := j.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (j *fakeJar) Cookie(cookie *router.Cookie) {
	j.written = append(j.written, cookie)
}

func (j *fakeJar) GetString(key string, defaultValue string) string {
	if v, ok := j.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (j *fakeJar) Query(key string, defaultValue ...string) string {
	if v, ok := j.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (j *fakeJar) last(name string) *router.Cookie {
	for i := len(j.written) - 1; i >= 0; i-- {
		if j.written[i].Name == name {
			return j.written[i]
		}
	}
	return nil
}

// testContext overrides the router.MockContext methods the session layer
// touches, the rest of router.Context comes from the embedded mock.
type testContext struct {
	*router.MockContext
	*fakeJar

	method      string
	path        string
	originalURL string
	form        map[string]any
	locals      map[any]any
	ctx         context.Context

	status         int
	redirectTo     string
	redirectStatus int
	rendered       string
	renderData     router.ViewContext
}

func newTestContext(method, path string) *testContext {
	return &testContext{
		MockContext: router.NewMockContext(),
		fakeJar:     newFakeJar(),
		method:      method,
		path:        path,
		originalURL: path,
		form:        map[string]any{},
		locals:      map[any]any{},
		ctx:         context.Background(),
	}
}

func (c *testContext) withCookie(name, value string) *testContext {
	c.cookies[name] = value
	return c
}

func (c *testContext) Method() string {
	return c.method
}

func (c *testContext) Path() string {
	return c.path
}

func (c *testContext) OriginalURL() string {
	return c.originalURL
}

func (c *testContext) Context() context.Context {
	return c.ctx
}

func (c *testContext) Cookies(key string, defaultValue ...string) string {
	return c.fakeJar.Cookies(key, defaultValue...)
}

func (c *testContext) Cookie(cookie *router.Cookie) {
	c.fakeJar.Cookie(cookie)
}

func (c *testContext) GetString(key string, defaultValue string) string {
	return c.fakeJar.GetString(key, defaultValue)
}

func (c *testContext) Query(key string, defaultValue ...string) string {
	return c.fakeJar.Query(key, defaultValue...)
}

func (c *testContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		c.locals[key] = value[0]
		return value[0]
	}
	return c.locals[key]
}

func (c *testContext) Bind(i any) error {
	raw, err := json.Marshal(c.form)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, i)
}

func (c *testContext) Status(code int) router.Context {
	c.status = code
	return c
}

func (c *testContext) Redirect(location string, status ...int) error {
	c.redirectTo = location
	if len(status) > 0 {
		c.redirectStatus = status[0]
	}
	return nil
}

func (c *testContext) Render(name string, bind any, layout ...string) error {
	c.rendered = name
	if data, ok := bind.(router.ViewContext); ok {
		c.renderData = data
	}
	return nil
}

func (c *testContext) wroteCookie(name string) *router.Cookie {
	return c.fakeJar.last(name)
}
