package auth

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimAdmin       = "admin"
	claimAdminLegacy = "isAdmin"
)

// Claims is the decoded payload of a credential. Nothing here is verified,
// values are only good enough to drive UI gating.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time

	admin  adminClaim
	exp    float64
	hasExp bool
	raw    jwt.MapClaims
}

// adminClaim keeps the raw admin value plus whether the key was present at
// all, a JSON null still counts as present.
type adminClaim struct {
	value   any
	present bool
}

// IsExpired reports whether the credential is expired at now. A missing exp
// counts as expired and the boundary is inclusive.
func (c *Claims) IsExpired(now time.Time) bool {
	if c == nil || !c.hasExp {
		return true
	}
	return float64(now.UnixMilli()) >= c.exp*1000
}

// IsAdmin reports the coerced admin capability
func (c *Claims) IsAdmin() bool {
	if c == nil || !c.admin.present {
		return false
	}
	return coerceAdmin(c.admin.value)
}

// AdminValue returns the raw admin claim, after the legacy fallback
func (c *Claims) AdminValue() (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.admin.value, c.admin.present
}

// Get returns any other payload field
func (c *Claims) Get(key string) (any, bool) {
	if c == nil || c.raw == nil {
		return nil, false
	}
	v, ok := c.raw[key]
	return v, ok
}

// coerceAdmin accepts boolean true or the string "true" in any case
func coerceAdmin(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	default:
		return false
	}
}

var base64URLReplacer = strings.NewReplacer("-", "+", "_", "/")

// DecodeClaims extracts the payload segment of a credential. Every failure
// is reported as ErrMalformedCredential.
func DecodeClaims(raw string) (*Claims, error) {
	segments := strings.Split(raw, ".")
	if len(segments) < 2 {
		return nil, malformedCredential("missing payload segment", nil)
	}

	payload := segments[1]
	if payload == "" {
		return nil, malformedCredential("empty payload segment", nil)
	}

	encoded := base64URLReplacer.Replace(payload)
	if rem := len(encoded) % 4; rem != 0 {
		encoded += strings.Repeat("=", 4-rem)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, malformedCredential("payload is not base64", err)
	}

	var mapped jwt.MapClaims
	if err := json.Unmarshal(data, &mapped); err != nil {
		return nil, malformedCredential("payload is not a JSON object", err)
	}
	if mapped == nil {
		return nil, malformedCredential("payload is null", nil)
	}

	return claimsFromMap(mapped), nil
}

func claimsFromMap(mapped jwt.MapClaims) *Claims {
	claims := &Claims{raw: mapped}

	// exp keeps its fractional seconds, a wrongly typed exp is the same as a
	// missing one: expired
	if exp, ok := mapped["exp"].(float64); ok {
		claims.exp = exp
		claims.hasExp = true
		if ms := exp * 1000; ms > math.MinInt64 && ms < math.MaxInt64 {
			t := time.UnixMilli(int64(ms)).UTC()
			claims.ExpiresAt = &t
		}
	}

	if iat, err := mapped.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		claims.IssuedAt = &t
	}

	if sub, err := mapped.GetSubject(); err == nil {
		claims.Subject = sub
	}

	claims.Email = stringClaim(mapped, "email")
	claims.Name = stringClaim(mapped, "name")

	if v, ok := mapped[claimAdmin]; ok {
		claims.admin = adminClaim{value: v, present: true}
	} else if v, ok := mapped[claimAdminLegacy]; ok {
		claims.admin = adminClaim{value: v, present: true}
	}

	return claims
}

func stringClaim(mapped jwt.MapClaims, key string) string {
	if v, ok := mapped[key].(string); ok {
		return v
	}
	return ""
}
