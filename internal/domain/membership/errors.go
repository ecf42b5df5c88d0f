package membership

import "errors"

var (
	// ErrNotMember indicates the requesting user holds no membership in
	// the project. Projects are invisible to non-members, so callers
	// surface this as not-found rather than forbidden.
	ErrNotMember = errors.New("not a member of the project")
	// ErrTargetNotMember indicates the user being acted on holds no
	// membership in the project.
	ErrTargetNotMember = errors.New("target user is not a member of the project")
	// ErrAlreadyMember indicates the user already holds a membership.
	ErrAlreadyMember = errors.New("user is already a member of the project")
	// ErrNotAuthorized indicates the requester's role does not permit
	// the operation.
	ErrNotAuthorized = errors.New("role does not permit the operation")
	// ErrLastAdministrator indicates the operation would leave the
	// project without an Administrator.
	ErrLastAdministrator = errors.New("project would be left without an administrator")
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
