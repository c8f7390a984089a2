package auth

import "time"

const (
	DefaultContextKey       = "token"
	DefaultTokenLookup      = "cookie:" + DefaultContextKey + ",header:Authorization"
	DefaultAuthScheme       = "Bearer"
	DefaultRetentionDays    = 1
	DefaultRejectedRouteKey = "rejected_route"
	DefaultLoginEndpoint    = "/loginservice/login"
	DefaultRegisterEndpoint = "/loginservice/register"
	DefaultProfileEndpoint  = "/user"
	DefaultRedirectDelay    = 100 * time.Millisecond
	DefaultAPIBaseURL       = "http://localhost:5122/api"
)

var _ Config = Options{}

// Options is the struct backed Config implementation
type Options struct {
	ContextKey          string        `json:"context_key"`
	TokenLookup         string        `json:"token_lookup"`
	AuthScheme          string        `json:"auth_scheme"`
	CookieRetentionDays int           `json:"cookie_retention_days"`
	CookieSecure        bool          `json:"cookie_secure"`
	LoginRoute          string        `json:"login_route"`
	RegisterRoute       string        `json:"register_route"`
	AccountRoute        string        `json:"account_route"`
	LandingRoute        string        `json:"landing_route"`
	RejectedRouteKey    string        `json:"rejected_route_key"`
	LoginEndpoint       string        `json:"login_endpoint"`
	RegisterEndpoint    string        `json:"register_endpoint"`
	ProfileEndpoint     string        `json:"profile_endpoint"`
	RedirectDelay       time.Duration `json:"redirect_delay"`
	APIBaseURL          string        `json:"api_base_url"`
}

// DefaultOptions returns the options used by the travel web client
func DefaultOptions() Options {
	return Options{
		ContextKey:          DefaultContextKey,
		TokenLookup:         DefaultTokenLookup,
		AuthScheme:          DefaultAuthScheme,
		CookieRetentionDays: DefaultRetentionDays,
		CookieSecure:        true,
		LoginRoute:          "/login",
		RegisterRoute:       "/register",
		AccountRoute:        "/account",
		LandingRoute:        "/buses",
		RejectedRouteKey:    DefaultRejectedRouteKey,
		LoginEndpoint:       DefaultLoginEndpoint,
		RegisterEndpoint:    DefaultRegisterEndpoint,
		ProfileEndpoint:     DefaultProfileEndpoint,
		RedirectDelay:       DefaultRedirectDelay,
		APIBaseURL:          DefaultAPIBaseURL,
	}
}

func (o Options) GetContextKey() string {
	return orDefault(o.ContextKey, DefaultContextKey)
}

func (o Options) GetTokenLookup() string {
	return orDefault(o.TokenLookup, "cookie:"+o.GetContextKey()+",header:Authorization")
}

func (o Options) GetAuthScheme() string {
	return orDefault(o.AuthScheme, DefaultAuthScheme)
}

func (o Options) GetCookieRetentionDays() int {
	if o.CookieRetentionDays <= 0 {
		return DefaultRetentionDays
	}
	return o.CookieRetentionDays
}

func (o Options) GetCookieSecure() bool {
	return o.CookieSecure
}

func (o Options) GetLoginRoute() string {
	return orDefault(o.LoginRoute, "/login")
}

func (o Options) GetRegisterRoute() string {
	return orDefault(o.RegisterRoute, "/register")
}

func (o Options) GetAccountRoute() string {
	return orDefault(o.AccountRoute, "/account")
}

func (o Options) GetLandingRoute() string {
	return orDefault(o.LandingRoute, "/buses")
}

func (o Options) GetRejectedRouteKey() string {
	return orDefault(o.RejectedRouteKey, DefaultRejectedRouteKey)
}

func (o Options) GetLoginEndpoint() string {
	return orDefault(o.LoginEndpoint, DefaultLoginEndpoint)
}

func (o Options) GetRegisterEndpoint() string {
	return orDefault(o.RegisterEndpoint, DefaultRegisterEndpoint)
}

func (o Options) GetProfileEndpoint() string {
	return orDefault(o.ProfileEndpoint, DefaultProfileEndpoint)
}

func (o Options) GetRedirectDelay() time.Duration {
	if o.RedirectDelay <= 0 {
		return DefaultRedirectDelay
	}
	return o.RedirectDelay
}

func (o Options) GetAPIBaseURL() string {
	return orDefault(o.APIBaseURL, DefaultAPIBaseURL)
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
