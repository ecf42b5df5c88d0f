package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrIDExhausted indicates public id generation ran out of attempts.
	ErrIDExhausted = errors.New("could not generate a unique project id")
)
