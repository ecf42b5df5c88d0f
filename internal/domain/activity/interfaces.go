package activity

import "context"

// Repository provides persistence for activity entries.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// ListOptions filters the activity trail.
type ListOptions struct {
	ProjectID string
	BugID     *string
	Type      *EntryType
	Limit     int
	Offset    int
}
