package attachment

import "errors"

var (
	// ErrAttachmentNotFound indicates the attachment doesn't exist on the bug.
	ErrAttachmentNotFound = errors.New("attachment not found")
	// ErrInvalidInput indicates invalid attachment input.
	ErrInvalidInput = errors.New("invalid attachment input")
)
