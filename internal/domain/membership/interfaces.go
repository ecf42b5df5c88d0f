package membership

import (
	"context"

	"github.com/bugpen/bugpen/internal/domain/activity"
)

// Repository provides persistence for memberships.
type Repository interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, userID, projectID string) (*Membership, error)
	GetByID(ctx context.Context, id string) (*Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]Member, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	// Delete removes the membership and every assignment referencing it
	// in one transaction. Bugs are untouched.
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, projectID string, role Role) (int, error)
	Count(ctx context.Context) (int, error)
}

// ActivityRepository records membership events on the project trail.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
