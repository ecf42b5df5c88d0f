package tag

import (
	"context"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
)

// Repository provides persistence for tags and marks.
type Repository interface {
	// Create inserts the tag. A duplicate (project, title, colors) tuple
	// is reported as repository.ErrConflict.
	Create(ctx context.Context, t *Tag) error
	Get(ctx context.Context, projectID, id string) (*Tag, error)
	ListByProject(ctx context.Context, projectID string) ([]Tag, error)
	// Delete removes the tag and its marks in one transaction.
	Delete(ctx context.Context, id string) error

	// CreateMark inserts a mark. A duplicate (bug, tag) pair is
	// reported as repository.ErrConflict.
	CreateMark(ctx context.Context, m *Mark) error
	DeleteMark(ctx context.Context, bugID, tagID string) error
	ListMarksByBug(ctx context.Context, bugID string) ([]Tag, error)
}

// ProjectRepository resolves project references.
type ProjectRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (*project.Project, error)
}

// MembershipRepository resolves the requester's membership.
type MembershipRepository interface {
	Get(ctx context.Context, userID, projectID string) (*membership.Membership, error)
}

// BugRepository resolves bugs scoped to the project for marking.
type BugRepository interface {
	Get(ctx context.Context, projectID, id string) (*bug.Bug, error)
}

// ActivityRepository records tag events on the project trail.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
