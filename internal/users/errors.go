package users

import "errors"

var (
	// ErrNotFound indicates the user has never signed in.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidInput indicates a missing id or email.
	ErrInvalidInput = errors.New("invalid input")
)
