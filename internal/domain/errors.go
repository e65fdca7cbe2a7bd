package domain

import "errors"

var (
	// ErrUnknownInstrument marks a code absent from the instrument directory.
	// Writes and upstream calls are gated on directory membership.
	ErrUnknownInstrument = errors.New("unknown instrument code")

	ErrNotFound = errors.New("not found")

	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)
