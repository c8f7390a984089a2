package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-travel-auth"
	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "malformed sentinel", err: auth.ErrMalformedCredential, check: auth.IsMalformedCredential, want: true},
		{name: "unauthenticated sentinel", err: auth.ErrUnauthenticated, check: auth.IsUnauthenticated, want: true},
		{name: "expired sentinel", err: auth.ErrSessionExpired, check: auth.IsSessionExpired, want: true},
		{name: "unauthorized sentinel", err: auth.ErrUnauthorized, check: auth.IsUnauthorized, want: true},
		{name: "request failed sentinel", err: auth.ErrRequestFailed, check: auth.IsRequestFailed, want: true},
		{name: "wrapped", err: fmt.Errorf("loading trips: %w", auth.ErrUnauthorized), check: auth.IsUnauthorized, want: true},
		{name: "expired is not unauthorized", err: auth.ErrSessionExpired, check: auth.IsUnauthorized, want: false},
		{name: "plain error", err: errors.New("session expired"), check: auth.IsSessionExpired, want: false},
		{name: "nil", err: nil, check: auth.IsRequestFailed, want: false},
		{
			name:  "other rich error",
			err:   goerrors.New("nope", goerrors.CategoryAuth).WithTextCode("OTHER"),
			check: auth.IsUnauthenticated,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestUnauthorizedCarriesPath(t *testing.T) {
	server := newAPIServer(t, 401, `{}`)
	gw := newTestGateway(server, storeWith(""), nil)

	_, err := gw.Call(context.Background(), &auth.Request{Path: "/vehicles"}, auth.SkipAuthCheck())

	var richErr *goerrors.Error
	if assert.True(t, goerrors.As(err, &richErr)) {
		assert.Equal(t, auth.TextCodeUnauthorized, richErr.TextCode)
		assert.Equal(t, "/vehicles", richErr.Metadata["path"])
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Empty(t, auth.ErrorMessage(nil))
	assert.Equal(t, "boom", auth.ErrorMessage(errors.New("boom")))
	assert.Equal(t, "no token found", auth.ErrorMessage(auth.ErrUnauthenticated))
	assert.Equal(t,
		"your session has expired, please log in again",
		auth.ErrorMessage(fmt.Errorf("wrapped: %w", auth.ErrSessionExpired)),
	)
}
