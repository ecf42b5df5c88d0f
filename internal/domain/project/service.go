package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/bugpen/bugpen/internal/token"
	"github.com/google/uuid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000

	publicIDLength = 8
	maxIDAttempts  = 5
)

// Service is the project registry.
type Service struct {
	projects    Repository
	memberships MembershipRepository
	attachments AttachmentRepository
	blobs       BlobRemover
	logger      *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, memberships MembershipRepository, attachments AttachmentRepository, blobs BlobRemover, logger *slog.Logger) *Service {
	return &Service{
		projects:    projects,
		memberships: memberships,
		attachments: attachments,
		blobs:       blobs,
		logger:      logger,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title       string
	Description string
}

// UpdateRequest defines project edit inputs.
type UpdateRequest struct {
	Title       *string
	Description *string
}

// Create creates a project. The creator becomes its first member with
// the Administrator role, atomically with the project itself. The public
// id is generated with a bounded retry-until-unique loop.
func (s *Service) Create(ctx context.Context, creatorID string, req CreateRequest) (*Project, error) {
	if err := validate(req.Title, req.Description); err != nil {
		return nil, err
	}

	now := time.Now()
	proj := &Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   creatorID,
		BugIndex:    0,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	creator := &membership.Membership{
		ID:         uuid.NewString(),
		UserID:     creatorID,
		ProjectID:  proj.ID,
		Role:       membership.RoleAdministrator,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		proj.PublicID = token.New(publicIDLength)
		err := s.projects.Create(ctx, proj, creator)
		if err == nil {
			if s.logger != nil {
				s.logger.Info("created project", "public_id", proj.PublicID)
			}
			return proj, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("creating project: %w", err)
		}
	}
	return nil, ErrIDExhausted
}

// Get resolves a project by public id together with the requester's
// membership in it. Non-members get ErrNotMember, never the project.
func (s *Service) Get(ctx context.Context, requesterID, publicID string) (*Project, *membership.Membership, error) {
	proj, err := s.resolve(ctx, publicID)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.memberships.Get(ctx, requesterID, proj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, membership.ErrNotMember
		}
		return nil, nil, fmt.Errorf("getting membership: %w", err)
	}
	return proj, m, nil
}

// ListMine lists the projects the user belongs to, with their role in each.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Summary, error) {
	return s.projects.ListByUser(ctx, userID)
}

// Update edits a project's title or description. Administrators only.
func (s *Service) Update(ctx context.Context, requesterID, publicID string, req UpdateRequest) (*Project, error) {
	proj, m, err := s.Get(ctx, requesterID, publicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionEditProject) {
		return nil, membership.ErrNotAuthorized
	}

	title := proj.Title
	description := proj.Description
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := validate(title, description); err != nil {
		return nil, err
	}
	proj.Title = title
	proj.Description = description
	proj.ModifiedAt = time.Now()

	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return proj, nil
}

// Delete removes a project and everything scoped to it. Administrators
// only. Attachment rows go with the project transaction; their blobs are
// removed afterwards, with failures logged rather than resurrect the rows.
func (s *Service) Delete(ctx context.Context, requesterID, publicID string) error {
	proj, m, err := s.Get(ctx, requesterID, publicID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionDeleteProject) {
		return membership.ErrNotAuthorized
	}

	blobIDs, err := s.attachments.ListIDsByProject(ctx, proj.ID)
	if err != nil {
		return fmt.Errorf("listing attachments: %w", err)
	}
	if err := s.projects.Delete(ctx, proj.ID); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	for _, id := range blobIDs {
		if err := s.blobs.Delete(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete attachment blob", "attachment", id, "error", err)
		}
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, publicID string) (*Project, error) {
	proj, err := s.projects.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

func validate(title, description string) error {
	if strings.TrimSpace(title) == "" || len(title) > maxTitleLen {
		return ErrInvalidInput
	}
	if len(description) > maxDescriptionLen {
		return ErrInvalidInput
	}
	return nil
}
