package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

var (
	ErrTokenMismatch = errors.New("CSRF token mismatch")
	ErrTokenMissing  = errors.New("CSRF token missing")
)

// DefaultTokenLength is the nonce length in bytes
const DefaultTokenLength = 32

// DefaultContextKey is the locals key holding the token of the request
const DefaultContextKey = "csrf_token"

// DefaultCookieName is the cookie carrying the per browser nonce
const DefaultCookieName = "csrf_nonce"

// DefaultFormFieldName is the default name for the CSRF token form field
const DefaultFormFieldName = "_token"

// DefaultHeaderName is the default header name for CSRF tokens
const DefaultHeaderName = "X-CSRF-Token"

// Config defines the configuration for CSRF middleware
type Config struct {
	// Skip defines a function to skip middleware
	Skip func(router.Context) bool

	// SecureKey signs the nonce, a random key is used when empty
	SecureKey []byte

	TokenLength   int
	ContextKey    string
	CookieName    string
	CookieSecure  bool
	CookieMaxAge  time.Duration
	FormFieldName string
	HeaderName    string

	// SafeMethods are served without validation
	SafeMethods []string

	ErrorHandler router.ErrorHandler
}

// New protects state changing requests with a signed double submit token.
// The nonce lives in a cookie, forms echo back its signature.
func New(config ...Config) router.MiddlewareFunc {
	cfg := configDefault(config...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			nonce := ctx.Cookies(cfg.CookieName)
			issued := false
			if nonce == "" {
				var err error
				if nonce, err = generateNonce(cfg.TokenLength); err != nil {
					return cfg.ErrorHandler(ctx, err)
				}
				issued = true
				ctx.Cookie(&router.Cookie{
					Name:     cfg.CookieName,
					Value:    nonce,
					Path:     "/",
					Expires:  time.Now().Add(cfg.CookieMaxAge),
					HTTPOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: "Lax",
				})
			}

			token := sign(cfg.SecureKey, nonce)
			ctx.Locals(cfg.ContextKey, token)
			ctx.Locals(cfg.ContextKey+"_field", cfg.FormFieldName)

			if slices.Contains(cfg.SafeMethods, strings.ToUpper(ctx.Method())) {
				return next(ctx)
			}

			// a nonce minted on this request was never seen by a form
			if issued {
				return cfg.ErrorHandler(ctx, ErrTokenMissing)
			}

			if err := validate(ctx, cfg, token); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return next(ctx)
		}
	}
}

// Token returns the token the middleware issued for the current request
func Token(ctx router.Context) string {
	token, _ := ctx.Locals(DefaultContextKey).(string)
	return token
}

// TemplateData returns the values views need to embed the token
func TemplateData(ctx router.Context) map[string]any {
	token := Token(ctx)
	field, _ := ctx.Locals(DefaultContextKey + "_field").(string)
	if field == "" {
		field = DefaultFormFieldName
	}
	return map[string]any{
		"csrf_token": token,
		"csrf_field": `<input type="hidden" name="` + field + `" value="` + token + `">`,
	}
}

func validate(ctx router.Context, cfg Config, expected string) error {
	received := ctx.FormValue(cfg.FormFieldName)
	if received == "" {
		received = ctx.GetString(cfg.HeaderName, "")
	}
	if received == "" {
		return ErrTokenMissing
	}
	if !hmac.Equal([]byte(received), []byte(expected)) {
		return ErrTokenMismatch
	}
	return nil
}

func sign(key []byte, nonce string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func generateNonce(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenLength == 0 {
		cfg.TokenLength = DefaultTokenLength
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	if cfg.CookieMaxAge == 0 {
		cfg.CookieMaxAge = 24 * time.Hour
	}

	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultFormFieldName
	}

	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}

	if cfg.SafeMethods == nil {
		cfg.SafeMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	cfg.SecureKey = initializeSecureKey(cfg.SecureKey)

	return cfg
}

func defaultErrorHandler(ctx router.Context, err error) error {
	switch err {
	case ErrTokenMissing:
		return ctx.Status(router.StatusBadRequest).SendString("CSRF token missing")
	case ErrTokenMismatch:
		return ctx.Status(router.StatusForbidden).SendString("CSRF token mismatch")
	default:
		return ctx.Status(router.StatusInternalServerError).SendString("CSRF validation error")
	}
}

func initializeSecureKey(current []byte) []byte {
	if len(current) > 0 {
		if len(current) < 32 {
			panic(fmt.Errorf("csrf: secure key must be at least 32 bytes, got %d", len(current)))
		}
		return current
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		panic(fmt.Errorf("csrf: unable to initialize secure key: %w", err))
	}
	return key
}
