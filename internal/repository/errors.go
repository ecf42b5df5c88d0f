// Package repository holds the sentinel errors persistence
// implementations translate store failures into. The persistence
// contracts themselves are declared in the domain packages that consume
// them; internal/sqlite implements each one.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint rejects a write
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a referenced entity doesn't exist
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
