package main

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type travelAPI struct {
	url    string
	mu     sync.Mutex
	paths  []string
	auth   map[string]string
	token  string
	status map[string]int
}

func newTravelAPI(t *testing.T, token string) *travelAPI {
	api := &travelAPI{
		auth:   map[string]string{},
		token:  token,
		status: map[string]int{},
	}
	server := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(server.Close)
	api.url = server.URL + "/api"
	return api
}

func (a *travelAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.paths = append(a.paths, r.URL.Path)
	a.auth[r.URL.Path] = r.Header.Get("Authorization")
	status, ok := a.status[r.URL.Path]
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
		return
	}

	switch r.URL.Path {
	case "/api/loginservice/login":
		_, _ = w.Write([]byte(`{"token":"` + a.token + `"}`))
	default:
		_, _ = w.Write([]byte(`[]`))
	}
}

func (a *travelAPI) called() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.paths...)
}

func (a *travelAPI) authOf(path string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.auth[path]
}

func validToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "17",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func (a *travelAPI) config() Config {
	return Config{
		APIBaseURL:      a.url,
		Email:           "ana@example.com",
		Password:        "secret",
		RedirectDelayMS: 10,
	}
}

func TestRun_FetchesTripsAndBuses(t *testing.T) {
	token := validToken(t)
	api := newTravelAPI(t, token)

	require.NoError(t, run(newLogger(), api.config()))

	assert.ElementsMatch(t, []string{
		"/api/loginservice/login",
		"/api/trips",
		"/api/get-buses",
	}, api.called())
	assert.Equal(t, "Bearer "+token, api.authOf("/api/trips"))
	assert.Empty(t, api.authOf("/api/loginservice/login"))
}

func TestRun_LoginFailureReturnsError(t *testing.T) {
	api := newTravelAPI(t, validToken(t))
	api.status["/api/loginservice/login"] = http.StatusUnauthorized

	assert.Error(t, run(newLogger(), api.config()))
	assert.Equal(t, []string{"/api/loginservice/login"}, api.called())
}

func TestRun_RequestFailureReturnsError(t *testing.T) {
	api := newTravelAPI(t, validToken(t))
	api.status["/api/get-buses"] = http.StatusInternalServerError

	assert.Error(t, run(newLogger(), api.config()))
	assert.Contains(t, api.called(), "/api/get-buses")
}
