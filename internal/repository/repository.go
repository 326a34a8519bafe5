// Package repository stores the shelter records for the API stub, either in
// process memory or in PostgreSQL.
package repository

import "errors"

var (
	// ErrNotFound is returned when no record has the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrReference is returned when a record points at a missing parent.
	ErrReference = errors.New("violates foreign key constraint")
	// ErrDuplicate is returned when a unique value is already taken.
	ErrDuplicate = errors.New("duplicate key")
)
