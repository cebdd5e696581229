package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLimitReached indicates the user's resume quota for a kind is exhausted.
	ErrLimitReached = errors.New("resume limit reached")
)
