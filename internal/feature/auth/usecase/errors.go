package usecase

import "errors"

var (
	// ErrUserNotFound is returned by the store when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUsernameAlreadyExists is returned when the generated username collides at insert time.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrNoPendingEmailChange is returned when no matching email change is waiting for confirmation.
	ErrNoPendingEmailChange = errors.New("no pending email change")
)
