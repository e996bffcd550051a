// Package password provides password hashing and the password format policy.
package password

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinLength is the minimum number of characters in a password.
	MinLength = 8
	// MaxBytes is the longest input bcrypt accepts.
	MaxBytes = 72
)

var (
	// ErrEmpty is returned when no password was provided.
	ErrEmpty = errors.New("no password provided")

	// ErrInvalidFormat is returned when the password is shorter than MinLength
	// or lacks a letter or a digit.
	ErrInvalidFormat = errors.New("password format is invalid")

	// ErrTooLong is returned when the password exceeds MaxBytes.
	ErrTooLong = errors.New("password is too long")
)

// Validate checks that the password has at least MinLength characters,
// at least one ASCII letter and at least one digit.
func Validate(plaintext string) error {
	if plaintext == "" {
		return ErrEmpty
	}
	if len(plaintext) > MaxBytes {
		return ErrTooLong
	}
	var hasLetter, hasDigit bool
	n := 0
	for _, r := range plaintext {
		n++
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if n < MinLength || !hasLetter || !hasDigit {
		return ErrInvalidFormat
	}
	return nil
}

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a non-match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
