// Package entity defines the domain entities for the auth feature.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuthMethod describes how a user proves their identity.
type AuthMethod int

const (
	// AuthMethodUnset is only valid while a signup is being assembled.
	AuthMethodUnset AuthMethod = iota
	// AuthMethodPassword means the user logs in with a bcrypt-hashed password.
	AuthMethodPassword
	// AuthMethodThirdParty means the user logs in with a Google or Facebook credential.
	AuthMethodThirdParty
)

func (m AuthMethod) String() string {
	switch m {
	case AuthMethodPassword:
		return "password"
	case AuthMethodThirdParty:
		return "third_party"
	default:
		return "unset"
	}
}

var (
	// ErrBothAuthMethods indicates that a user carries a password hash and third-party attributes at once.
	ErrBothAuthMethods = errors.New("user cannot have both a password and third-party auth attributes")

	// ErrNoAuthMethod indicates that a user is about to be persisted without any way to log in.
	ErrNoAuthMethod = errors.New("user has neither a password nor third-party auth attributes")
)

// User represents a registered account together with its security state.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID

	// Email is unique across all users.
	Email string

	// UnconfirmedNewEmail holds a pending email change until it is confirmed.
	UnconfirmedNewEmail string

	// Username is unique, compared case-insensitively.
	Username string

	FirstName string
	LastName  string
	Bio       string

	// PasswordHash is empty for third-party accounts, and also when the
	// record was loaded without its password column.
	PasswordHash string

	// AuthAttributes is nil for password accounts.
	AuthAttributes *AuthAttributes

	Confirmed bool
	Active    bool
	Public    bool

	// FailedLoginAttemptCount counts consecutive failed password verifications.
	FailedLoginAttemptCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPasswordUser builds a password-authenticated user. The account starts unconfirmed.
func NewPasswordUser(email, username, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Active:       true,
		Public:       true,
	}
}

// NewThirdPartyUser builds a user linked to a third-party provider.
// The provider has already verified the email, so the account starts confirmed.
func NewThirdPartyUser(email, username string, attrs *AuthAttributes) *User {
	return &User{
		ID:             uuid.New(),
		Email:          email,
		Username:       username,
		AuthAttributes: attrs,
		Confirmed:      true,
		Active:         true,
		Public:         true,
	}
}

// AuthMethod reports how the user authenticates. It requires the record to
// have been loaded with its password hash.
func (u *User) AuthMethod() AuthMethod {
	switch {
	case u.PasswordHash != "":
		return AuthMethodPassword
	case u.AuthAttributes != nil:
		return AuthMethodThirdParty
	default:
		return AuthMethodUnset
	}
}

// HasPassword reports whether a password hash is loaded for the user.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Validate checks that the user authenticates through exactly one method.
func (u *User) Validate() error {
	if u.PasswordHash != "" && u.AuthAttributes != nil {
		return ErrBothAuthMethods
	}
	if u.AuthMethod() == AuthMethodUnset {
		return ErrNoAuthMethod
	}
	return nil
}

// IsLocked reports whether the user has reached the failed-login threshold.
func (u *User) IsLocked(threshold int) bool {
	return u.FailedLoginAttemptCount >= threshold
}
