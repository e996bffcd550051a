// Package domain defines domain-level errors for the auth feature.
package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failures the auth core reports to its callers.
type Kind int

const (
	// KindUnauthorized covers bad credentials, invalid tokens and wrong passwords.
	KindUnauthorized Kind = iota + 1
	// KindLocked means the account reached the failed-login threshold.
	KindLocked
	// KindForbidden means the caller is authenticated but not permitted.
	KindForbidden
	// KindBadRequest covers malformed input and third-party verification failures.
	KindBadRequest
	// KindNotFound means a referenced user does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindLocked:
		return "locked"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// AuthError is the single error type returned by the auth core.
// Reason is safe to show to end users.
type AuthError struct {
	Kind   Kind
	Reason string
	// FailedLoginAttemptCount is set only for wrong-password failures.
	FailedLoginAttemptCount int
}

func (e *AuthError) Error() string {
	if e.FailedLoginAttemptCount > 0 {
		return fmt.Sprintf("%s: %s (failed attempts: %d)", e.Kind, e.Reason, e.FailedLoginAttemptCount)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches another *AuthError of the same Kind, so errors.Is(err, &AuthError{Kind: KindLocked}) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// ReasonLocked is returned while an account is locked out.
const ReasonLocked = "Account locked due to too many failed login attempts"

func Unauthorized(reason string) *AuthError {
	return &AuthError{Kind: KindUnauthorized, Reason: reason}
}

// WrongPassword reports a failed password verification along with the updated counter.
func WrongPassword(count int) *AuthError {
	return &AuthError{Kind: KindUnauthorized, Reason: "wrong password", FailedLoginAttemptCount: count}
}

func Locked() *AuthError {
	return &AuthError{Kind: KindLocked, Reason: ReasonLocked}
}

func Forbidden(reason string) *AuthError {
	return &AuthError{Kind: KindForbidden, Reason: reason}
}

func BadRequest(reason string) *AuthError {
	return &AuthError{Kind: KindBadRequest, Reason: reason}
}

func NotFound(reason string) *AuthError {
	return &AuthError{Kind: KindNotFound, Reason: reason}
}

// KindOf extracts the Kind of err, or 0 when err is not an *AuthError.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
