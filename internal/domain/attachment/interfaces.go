package attachment

import (
	"context"
	"io"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
)

// Repository provides persistence for attachment metadata.
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	// Get loads an attachment scoped to a bug; an attachment belonging
	// to another bug is repository.ErrNotFound.
	Get(ctx context.Context, bugID, id string) (*Attachment, error)
	ListByBug(ctx context.Context, bugID string) ([]Attachment, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository resolves project references.
type ProjectRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (*project.Project, error)
}

// MembershipRepository resolves the requester's membership.
type MembershipRepository interface {
	Get(ctx context.Context, userID, projectID string) (*membership.Membership, error)
}

// BugRepository resolves bugs scoped to the project.
type BugRepository interface {
	Get(ctx context.Context, projectID, id string) (*bug.Bug, error)
}

// BlobStore persists attachment bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, content io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ActivityRepository records attachment events on the project trail.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
