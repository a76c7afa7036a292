package storage

import "errors"

// Storage errors for the append-only receipt journal.
var (
	// ErrNotFound is returned when a requested receipt does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a receipt whose signature
	// already exists. The journal is append-only and never updates rows.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
