package bug

import (
	"context"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
)

// Repository provides persistence for bugs and their assignments.
type Repository interface {
	// Create inserts the bug and allocates its project-local index from
	// the project's counter in one transaction: the bug's index and the
	// incremented counter are never observed apart.
	Create(ctx context.Context, b *Bug) error
	// Get loads a bug scoped to a project; a bug belonging to another
	// project is repository.ErrNotFound.
	Get(ctx context.Context, projectID, id string) (*Bug, error)
	ListByProject(ctx context.Context, projectID string) ([]Bug, error)
	Update(ctx context.Context, b *Bug) error
	// Delete removes the bug and every mark, assignment and attachment
	// row referencing it in one transaction.
	Delete(ctx context.Context, id string) error

	CreateAssignment(ctx context.Context, a *Assignment) error
	DeleteAssignment(ctx context.Context, bugID, membershipID string) error
	ListAssignees(ctx context.Context, bugID string) ([]Assignee, error)
	IsAssigned(ctx context.Context, bugID, membershipID string) (bool, error)
}

// ProjectRepository resolves project references.
type ProjectRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (*project.Project, error)
}

// MembershipRepository resolves memberships for authorization and
// assignment targets.
type MembershipRepository interface {
	Get(ctx context.Context, userID, projectID string) (*membership.Membership, error)
}

// AttachmentRepository enumerates attachment blobs for cascade cleanup.
type AttachmentRepository interface {
	ListIDsByBug(ctx context.Context, bugID string) ([]string, error)
}

// BlobRemover deletes stored attachment bytes.
type BlobRemover interface {
	Delete(ctx context.Context, key string) error
}

// ActivityRepository records bug events on the project trail.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
