package bug

import "errors"

var (
	// ErrBugNotFound indicates the bug doesn't exist in the project.
	ErrBugNotFound = errors.New("bug not found")
	// ErrInvalidInput indicates invalid bug input.
	ErrInvalidInput = errors.New("invalid bug input")
	// ErrAlreadyAssigned indicates the member is already assigned to the bug.
	ErrAlreadyAssigned = errors.New("member is already assigned to the bug")
	// ErrAssignmentNotFound indicates no such assignment exists.
	ErrAssignmentNotFound = errors.New("assignment not found")
)
