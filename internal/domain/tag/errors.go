package tag

import "errors"

var (
	// ErrTagNotFound indicates the tag doesn't exist in the project.
	ErrTagNotFound = errors.New("tag not found")
	// ErrDuplicateTag indicates an identical tag already exists in the project.
	ErrDuplicateTag = errors.New("tag already exists in the project")
	// ErrAlreadyMarked indicates the bug already carries the tag.
	ErrAlreadyMarked = errors.New("bug already carries the tag")
	// ErrMarkNotFound indicates no such mark exists.
	ErrMarkNotFound = errors.New("mark not found")
	// ErrInvalidInput indicates invalid tag input.
	ErrInvalidInput = errors.New("invalid tag input")
)
