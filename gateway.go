package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// Request describes an outbound API call. Path is relative to the gateway
// base URL unless it is absolute.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// Response is a successful (2xx) API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into out
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, out)
}

type callOptions struct {
	skipAuthCheck bool
}

type CallOption func(*callOptions)

// SkipAuthCheck disables the pre-flight credential checks for a call. The
// 401 handling still applies.
func SkipAuthCheck() CallOption {
	return func(o *callOptions) {
		o.skipAuthCheck = true
	}
}

// Gateway issues authenticated calls against the remote API
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      CredentialStore
	navigator  Navigator
	cfg        Config
	now        func() time.Time
	logger     Logger
	debug      bool
}

type GatewayOption func(*Gateway)

// WithHTTPClient sets the client used for outbound calls
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL from the config
func WithBaseURL(baseURL string) GatewayOption {
	return func(g *Gateway) {
		if baseURL != "" {
			g.baseURL = baseURL
		}
	}
}

// WithGatewayConfig sets the routes, endpoints and base URL
func WithGatewayConfig(cfg Config) GatewayOption {
	return func(g *Gateway) {
		if cfg != nil {
			g.cfg = cfg
			g.baseURL = cfg.GetAPIBaseURL()
		}
	}
}

// WithGatewayClock sets the clock used for the expiry pre-flight
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// WithGatewayLogger sets the gateway logger
func WithGatewayLogger(logger Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDebug dumps request payloads to the logger
func WithDebug(debug bool) GatewayOption {
	return func(g *Gateway) {
		g.debug = debug
	}
}

// NewGateway creates a gateway over store. Redirects caused by an expired
// or rejected credential are handed to navigator.
func NewGateway(store CredentialStore, navigator Navigator, opts ...GatewayOption) *Gateway {
	cfg := DefaultOptions()
	g := &Gateway{
		baseURL:    cfg.GetAPIBaseURL(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		navigator:  navigator,
		cfg:        cfg,
		now:        time.Now,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.navigator == nil {
		g.navigator = NavigatorFuncs{}
	}

	return g
}

// WithSession returns a copy of the gateway bound to another store and
// navigator, used to serve a single HTTP request.
func (g *Gateway) WithSession(store CredentialStore, navigator Navigator) *Gateway {
	clone := *g
	clone.store = store
	if navigator != nil {
		clone.navigator = navigator
	}
	return &clone
}

// Store returns the credential store the gateway reads from
func (g *Gateway) Store() CredentialStore {
	return g.store
}

// Call runs the pre-flight checks, issues the request and maps the response
// into the gateway error taxonomy.
func (g *Gateway) Call(ctx context.Context, req *Request, opts ...CallOption) (*Response, error) {
	o := &callOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if !o.skipAuthCheck {
		if err := g.preflight(); err != nil {
			return nil, err
		}
	}

	httpReq, err := g.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, requestFailed(req.Path, 0, "", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Error("gateway request error", "path", req.Path, "error", err)
		return nil, requestFailed(req.Path, 0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestFailed(req.Path, resp.StatusCode, "", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.handleUnauthorized()
		return nil, unauthorized(req.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestFailed(req.Path, resp.StatusCode, serverMessage(body), nil)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// JSON issues a call with a JSON body and decodes the JSON response into out
func (g *Gateway) JSON(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	resp, err := g.Call(ctx, &Request{
		Method: method,
		Path:   path,
		Body:   body,
	}, opts...)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return requestFailed(path, resp.StatusCode, "", err)
	}
	return nil
}

func (g *Gateway) preflight() error {
	if _, ok := g.store.Get(); !ok {
		return unauthenticated("")
	}

	oracle := NewSessionOracle(g.store, WithClock(g.now), WithSessionLogger(g.logger))
	if !oracle.IsExpired() {
		return nil
	}

	g.logger.Info("credential expired, clearing session")
	g.store.Remove()

	login := g.cfg.GetLoginRoute()
	if g.navigator.CurrentPath() != login {
		g.navigator.Navigate(login)
	}

	return sessionExpired()
}

func (g *Gateway) handleUnauthorized() {
	g.store.Remove()

	current := g.navigator.CurrentPath()
	if current == g.cfg.GetLoginRoute() || current == g.cfg.GetRegisterRoute() {
		return
	}

	g.logger.Info("server rejected credential, redirecting to login", "path", current)
	g.navigator.Navigate(g.cfg.GetLoginRoute())
}

func (g *Gateway) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
		if g.debug {
			g.logger.Debug("gateway request payload", "path", req.Path, "body", print.MaybePrettyJSON(req.Body))
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.resolve(req), body)
	if err != nil {
		return nil, err
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	// login must never carry a stale credential
	if token, ok := g.store.Get(); ok && !g.isLoginEndpoint(req.Path) {
		httpReq.Header.Set("Authorization", g.cfg.GetAuthScheme()+" "+token)
	}

	return httpReq, nil
}

func (g *Gateway) isLoginEndpoint(path string) bool {
	return strings.Contains(path, g.cfg.GetLoginEndpoint())
}

func (g *Gateway) resolve(req *Request) string {
	target := req.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(g.baseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}
	return target
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
