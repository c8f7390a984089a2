package auth

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMalformedCredential = "MALFORMED_CREDENTIAL"
	TextCodeUnauthenticated     = "UNAUTHENTICATED"
	TextCodeSessionExpired      = "SESSION_EXPIRED"
	TextCodeUnauthorized        = "UNAUTHORIZED"
	TextCodeRequestFailed       = "REQUEST_FAILED"
)

// ErrMalformedCredential is returned by the claim decoder for any credential
// it cannot extract claims from.
var ErrMalformedCredential = errors.New("cannot extract claims from credential", errors.CategoryBadInput).
	WithTextCode(TextCodeMalformedCredential).
	WithCode(errors.CodeBadRequest)

// ErrUnauthenticated is returned when a call needs a credential and none is stored
var ErrUnauthenticated = errors.New("no token found", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrSessionExpired is returned when the stored credential is expired locally
var ErrSessionExpired = errors.New("your session has expired, please log in again", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned when the server answered 401
var ErrUnauthorized = errors.New("your session has expired, please log in again", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrRequestFailed covers every other transport or application failure
var ErrRequestFailed = errors.New("an error occurred", errors.CategoryOperation).
	WithTextCode(TextCodeRequestFailed).
	WithCode(errors.CodeInternal)

// IsMalformedCredential reports whether err came out of the claim decoder
func IsMalformedCredential(err error) bool {
	return hasTextCode(err, TextCodeMalformedCredential)
}

// IsUnauthenticated reports whether err means no credential was stored
func IsUnauthenticated(err error) bool {
	return hasTextCode(err, TextCodeUnauthenticated)
}

// IsSessionExpired reports whether err means the credential expired locally
func IsSessionExpired(err error) bool {
	return hasTextCode(err, TextCodeSessionExpired)
}

// IsUnauthorized reports whether err means the server rejected the credential
func IsUnauthorized(err error) bool {
	return hasTextCode(err, TextCodeUnauthorized)
}

// IsRequestFailed reports whether err is a generic request failure
func IsRequestFailed(err error) bool {
	return hasTextCode(err, TextCodeRequestFailed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

func malformedCredential(reason string, cause error) error {
	clone := ErrMalformedCredential.Clone()
	if clone == nil {
		return ErrMalformedCredential
	}
	if cause != nil {
		clone.Source = cause
	}
	return clone.WithMetadata(map[string]any{"reason": reason})
}

func unauthenticated(message string) error {
	clone := ErrUnauthenticated.Clone()
	if clone == nil {
		return ErrUnauthenticated
	}
	if message != "" {
		clone.Message = message
	}
	return clone
}

func sessionExpired() error {
	clone := ErrSessionExpired.Clone()
	if clone == nil {
		return ErrSessionExpired
	}
	return clone
}

func unauthorized(path string) error {
	clone := ErrUnauthorized.Clone()
	if clone == nil {
		return ErrUnauthorized
	}
	return clone.WithMetadata(map[string]any{"path": path})
}

func requestFailed(path string, status int, message string, cause error) error {
	clone := ErrRequestFailed.Clone()
	if clone == nil {
		return ErrRequestFailed
	}

	switch {
	case message != "":
		clone.Message = message
	case cause != nil:
		clone.Message = cause.Error()
	case status > 0:
		clone.Message = fmt.Sprintf("request failed with status code %d", status)
	}

	if cause != nil {
		clone.Source = cause
	}

	code := errors.CodeInternal
	if status > 0 {
		code = status
	}

	return clone.WithCode(code).WithMetadata(map[string]any{
		"path":   path,
		"status": status,
	})
}

// ErrorMessage returns the user facing message of err
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}
