package user

import "errors"

var (
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput indicates invalid user input.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrIDExhausted indicates public id generation ran out of attempts.
	ErrIDExhausted = errors.New("could not generate a unique user id")
)
