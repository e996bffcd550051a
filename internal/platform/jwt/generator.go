package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing is the cause when no bearer token was presented.
	ErrTokenMissing = errors.New("not authenticated")
	// ErrTokenExpired is the cause when the token's exp claim has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is the cause for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("could not validate credentials")
	// ErrSubjectMissing is the cause when the token carries no sub claim.
	ErrSubjectMissing = errors.New("could not validate credentials: user_id is not given in the token")
)

// CredentialsError is returned by Verify. Cause is one of the Err* values above.
type CredentialsError struct {
	Cause error
	// Detail carries the underlying parser message, for logs only.
	Detail string
}

func (e *CredentialsError) Error() string {
	return e.Cause.Error()
}

func (e *CredentialsError) Unwrap() error {
	return e.Cause
}

// TokenService issues and verifies HS256 bearer tokens. It has no notion of
// what a token is for: every caller passes its own TTL.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, opts ...Option) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a signed token whose subject is userID and which expires ttl from now.
func (s *TokenService) Issue(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns its subject.
// Every failure is a *CredentialsError.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", &CredentialsError{Cause: ErrTokenMissing}
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; this also rejects alg=none.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", &CredentialsError{Cause: ErrTokenExpired, Detail: err.Error()}
		}
		return "", &CredentialsError{Cause: ErrTokenInvalid, Detail: err.Error()}
	}

	if claims.Subject == "" {
		return "", &CredentialsError{Cause: ErrSubjectMissing}
	}
	return claims.Subject, nil
}
