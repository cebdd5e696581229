package imports

import "errors"

var (
	// ErrNotFound indicates the import does not exist for the user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates an unusable upload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type text cannot be extracted from.
	ErrUnsupportedType = errors.New("unsupported file type")
)
