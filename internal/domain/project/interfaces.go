package project

import (
	"context"

	"github.com/bugpen/bugpen/internal/domain/membership"
)

// Repository provides persistence for projects.
type Repository interface {
	// Create inserts the project together with its creator's
	// Administrator membership in one transaction. A public id collision
	// is reported as repository.ErrConflict.
	Create(ctx context.Context, proj *Project, creator *membership.Membership) error
	Get(ctx context.Context, id string) (*Project, error)
	GetByPublicID(ctx context.Context, publicID string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	// Delete removes the project and every membership, bug, tag, mark,
	// assignment and attachment row scoped to it in one transaction.
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
}

// MembershipRepository resolves the requester's membership.
type MembershipRepository interface {
	Get(ctx context.Context, userID, projectID string) (*membership.Membership, error)
}

// AttachmentRepository enumerates attachment blobs for cascade cleanup.
type AttachmentRepository interface {
	ListIDsByProject(ctx context.Context, projectID string) ([]string, error)
}

// BlobRemover deletes stored attachment bytes.
type BlobRemover interface {
	Delete(ctx context.Context, key string) error
}
