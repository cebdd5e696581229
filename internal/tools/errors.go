package tools

import "errors"

var (
	ErrUnknownFunction  = errors.New("unknown function")
	ErrInvalidArguments = errors.New("invalid arguments")
)
