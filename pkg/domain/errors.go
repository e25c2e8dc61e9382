package domain

import "errors"

// Validation errors for domain primitives.
var (
	ErrEmptyUID     = errors.New("uid cannot be empty")
	ErrMalformedUID = errors.New("uid contains surrounding whitespace")
)
