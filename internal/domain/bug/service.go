package bug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/google/uuid"
)

// Service is the bug resource manager.
type Service struct {
	bugs        Repository
	projects    ProjectRepository
	memberships MembershipRepository
	attachments AttachmentRepository
	blobs       BlobRemover
	activities  ActivityRepository
	logger      *slog.Logger
}

// NewService creates a new bug service.
func NewService(
	bugs Repository,
	projects ProjectRepository,
	memberships MembershipRepository,
	attachments AttachmentRepository,
	blobs BlobRemover,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		bugs:        bugs,
		projects:    projects,
		memberships: memberships,
		attachments: attachments,
		blobs:       blobs,
		activities:  activities,
		logger:      logger,
	}
}

// ReportRequest describes a bug report.
type ReportRequest struct {
	Title        string
	Description  string
	Reproducible bool
	Impact       int
	Urgency      int
}

// UpdateRequest describes a bug edit; nil fields are left unchanged.
type UpdateRequest struct {
	Title        *string
	Description  *string
	Reproducible *bool
	Impact       *int
	Urgency      *int
}

// Report files a new bug. Requires the Contributor role. The bug's index
// is allocated from the project's counter atomically with the insert.
func (s *Service) Report(ctx context.Context, requesterID, projectPublicID string, req ReportRequest) (*Bug, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionCreateBug) {
		return nil, membership.ErrNotAuthorized
	}
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := validateScore(req.Impact); err != nil {
		return nil, err
	}
	if err := validateScore(req.Urgency); err != nil {
		return nil, err
	}

	now := time.Now()
	b := &Bug{
		ID:           uuid.NewString(),
		ProjectID:    proj.ID,
		Title:        req.Title,
		Description:  req.Description,
		ReporterID:   requesterID,
		Reproducible: req.Reproducible,
		Impact:       req.Impact,
		Urgency:      req.Urgency,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := s.bugs.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("creating bug: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeBugReported,
		fmt.Sprintf("bug #%d reported", b.Index))
	return b, nil
}

// Get loads a bug. Any member may read. A bug id from another project is
// not found.
func (s *Service) Get(ctx context.Context, requesterID, projectPublicID, bugID string) (*Bug, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, proj.ID, bugID)
}

// List lists a project's bugs in index order. Any member may read.
func (s *Service) List(ctx context.Context, requesterID, projectPublicID string) ([]Bug, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	return s.bugs.ListByProject(ctx, proj.ID)
}

// Update edits a bug. Directors and above may edit any bug; the reporter
// and current assignees may edit regardless of role.
func (s *Service) Update(ctx context.Context, requesterID, projectPublicID, bugID string, req UpdateRequest) (*Bug, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}

	allowed := m.Role.Allows(membership.ActionEditAnyBug) || b.ReporterID == requesterID
	if !allowed {
		assigned, err := s.bugs.IsAssigned(ctx, b.ID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("checking assignment: %w", err)
		}
		allowed = assigned
	}
	if !allowed {
		return nil, membership.ErrNotAuthorized
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
		b.Title = *req.Title
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
		b.Description = *req.Description
	}
	if req.Reproducible != nil {
		b.Reproducible = *req.Reproducible
	}
	if req.Impact != nil {
		if err := validateScore(*req.Impact); err != nil {
			return nil, err
		}
		b.Impact = *req.Impact
	}
	if req.Urgency != nil {
		if err := validateScore(*req.Urgency); err != nil {
			return nil, err
		}
		b.Urgency = *req.Urgency
	}
	b.ModifiedAt = time.Now()

	if err := s.bugs.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("updating bug: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeBugEdited,
		fmt.Sprintf("bug #%d edited", b.Index))
	return b, nil
}

// Delete removes a bug and cascades its marks, assignments and
// attachments. Administrators only.
func (s *Service) Delete(ctx context.Context, requesterID, projectPublicID, bugID string) error {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionDeleteBug) {
		return membership.ErrNotAuthorized
	}
	b, err := s.load(ctx, proj.ID, bugID)
	if err != nil {
		return err
	}

	blobIDs, err := s.attachments.ListIDsByBug(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("listing attachments: %w", err)
	}
	if err := s.bugs.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("deleting bug: %w", err)
	}
	for _, id := range blobIDs {
		if err := s.blobs.Delete(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete attachment blob", "attachment", id, "error", err)
		}
	}

	s.logEvent(ctx, proj.ID, requesterID, nil, activity.TypeBugDeleted,
		fmt.Sprintf("bug #%d deleted", b.Index))
	return nil
}

// Assign assigns a member to a bug. Requires the Director role; the
// target must be a member of the project.
func (s *Service) Assign(ctx context.Context, requesterID, projectPublicID, bugID, targetUserID string) (*Assignment, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionAssignBug) {
		return nil, membership.ErrNotAuthorized
	}
	b, err := s.load(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	target, err := s.memberships.Get(ctx, targetUserID, proj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, membership.ErrTargetNotMember
		}
		return nil, fmt.Errorf("getting target membership: %w", err)
	}

	a := &Assignment{
		ID:           uuid.NewString(),
		BugID:        b.ID,
		MembershipID: target.ID,
		CreatedAt:    time.Now(),
	}
	if err := s.bugs.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeBugAssigned,
		fmt.Sprintf("bug #%d assigned", b.Index))
	return a, nil
}

// Unassign removes a member's assignment from a bug. Requires the
// Director role.
func (s *Service) Unassign(ctx context.Context, requesterID, projectPublicID, bugID, targetUserID string) error {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionAssignBug) {
		return membership.ErrNotAuthorized
	}
	b, err := s.load(ctx, proj.ID, bugID)
	if err != nil {
		return err
	}
	target, err := s.memberships.Get(ctx, targetUserID, proj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return membership.ErrTargetNotMember
		}
		return fmt.Errorf("getting target membership: %w", err)
	}

	if err := s.bugs.DeleteAssignment(ctx, b.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("deleting assignment: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeBugUnassigned,
		fmt.Sprintf("bug #%d unassigned", b.Index))
	return nil
}

// Assignees lists who is assigned to a bug. Any member may read.
func (s *Service) Assignees(ctx context.Context, requesterID, projectPublicID, bugID string) ([]Assignee, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	return s.bugs.ListAssignees(ctx, b.ID)
}

func (s *Service) member(ctx context.Context, requesterID, projectPublicID string) (*project.Project, *membership.Membership, error) {
	proj, err := s.projects.GetByPublicID(ctx, projectPublicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, project.ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("getting project: %w", err)
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

func (s *Service) load(ctx context.Context, projectID, bugID string) (*Bug, error) {
	b, err := s.bugs.Get(ctx, projectID, bugID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, fmt.Errorf("getting bug: %w", err)
	}
	return b, nil
}

func (s *Service) logEvent(ctx context.Context, projectID, actorID string, bugID *string, typ activity.EntryType, summary string) {
	entry := &activity.Entry{
		ProjectID: projectID,
		ActorID:   actorID,
		BugID:     bugID,
		Type:      typ,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	if err := s.activities.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log bug activity", "type", typ, "error", err)
	}
}
