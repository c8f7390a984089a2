package auth

import (
	"time"
)

// SessionOracle derives session facts from the stored credential. It holds
// no state of its own, every answer is recomputed from the store.
type SessionOracle struct {
	store  CredentialStore
	now    func() time.Time
	logger Logger
}

type SessionOption func(*SessionOracle)

// WithClock sets the clock used for expiry checks
func WithClock(now func() time.Time) SessionOption {
	return func(o *SessionOracle) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSessionLogger sets the logger used to report decode failures
func WithSessionLogger(logger Logger) SessionOption {
	return func(o *SessionOracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewSessionOracle creates an oracle over store
func NewSessionOracle(store CredentialStore, opts ...SessionOption) *SessionOracle {
	o := &SessionOracle{
		store:  store,
		now:    time.Now,
		logger: defLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store returns the underlying credential store
func (o *SessionOracle) Store() CredentialStore {
	return o.store
}

// IsAuthenticated only checks that a credential is present
func (o *SessionOracle) IsAuthenticated() bool {
	_, ok := o.store.Get()
	return ok
}

// IsExpired is true when there is no credential, it can not be decoded,
// it has no exp, or exp is at or before now.
func (o *SessionOracle) IsExpired() bool {
	token, ok := o.store.Get()
	if !ok {
		return true
	}
	return o.expired(o.decode(token))
}

// IsAdmin is false unless a decodable credential carries a truthy admin claim
func (o *SessionOracle) IsAdmin() bool {
	token, ok := o.store.Get()
	if !ok {
		return false
	}
	return o.decode(token).IsAdmin()
}

// Claims returns the decoded claims of the current credential, if any
func (o *SessionOracle) Claims() (*Claims, bool) {
	token, ok := o.store.Get()
	if !ok {
		return nil, false
	}
	claims := o.decode(token)
	return claims, claims != nil
}

// Snapshot computes all three facts from a single read of the store
func (o *SessionOracle) Snapshot() SessionSnapshot {
	token, ok := o.store.Get()
	if !ok {
		return SessionSnapshot{Expired: true}
	}
	claims := o.decode(token)
	return SessionSnapshot{
		Present: true,
		Expired: o.expired(claims),
		Admin:   claims.IsAdmin(),
	}
}

func (o *SessionOracle) expired(claims *Claims) bool {
	return claims.IsExpired(o.now())
}

// decode swallows decode errors, a nil result is expired and non admin
func (o *SessionOracle) decode(token string) *Claims {
	claims, err := DecodeClaims(token)
	if err != nil {
		o.logger.Debug("unable to decode credential", "error", err)
		return nil
	}
	return claims
}
