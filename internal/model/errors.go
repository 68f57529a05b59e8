package model

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a compare-and-set precondition does not hold.
	ErrConflict = errors.New("state conflict")

	// ErrAlreadyExists is returned when provisioning a record for a taken user id.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidRecord is returned when provisioning a record that is not a fresh pending one.
	ErrInvalidRecord = errors.New("invalid record")
)

var (
	ErrTokenMismatch      = errors.New("page token mismatch")
	ErrAlreadyUsed        = errors.New("link already used")
	ErrNotConsumed        = errors.New("link not consumed")
	ErrVerifyTokenMissing = errors.New("verify token missing")
	ErrResolutionFailed   = errors.New("destination resolution failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)
