package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/google/uuid"
)

const maxTitleLen = 100

// Service is the tag and mark resource manager.
type Service struct {
	tags        Repository
	projects    ProjectRepository
	memberships MembershipRepository
	bugs        BugRepository
	activities  ActivityRepository
	logger      *slog.Logger
}

// NewService creates a new tag service.
func NewService(
	tags Repository,
	projects ProjectRepository,
	memberships MembershipRepository,
	bugs BugRepository,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		tags:        tags,
		projects:    projects,
		memberships: memberships,
		bugs:        bugs,
		activities:  activities,
		logger:      logger,
	}
}

// CreateRequest defines tag creation inputs.
type CreateRequest struct {
	Title           string
	TextColor       string
	BackgroundColor string
	BorderColor     string
}

// Create defines a tag in a project. Requires the Contributor role.
// An identical definition in the same project is a conflict.
func (s *Service) Create(ctx context.Context, requesterID, projectPublicID string, req CreateRequest) (*Tag, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionCreateTag) {
		return nil, membership.ErrNotAuthorized
	}
	if strings.TrimSpace(req.Title) == "" || len(req.Title) > maxTitleLen {
		return nil, ErrInvalidInput
	}
	if req.TextColor == "" || req.BackgroundColor == "" || req.BorderColor == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	t := &Tag{
		ID:              uuid.NewString(),
		ProjectID:       proj.ID,
		Title:           req.Title,
		TextColor:       req.TextColor,
		BackgroundColor: req.BackgroundColor,
		BorderColor:     req.BorderColor,
		CreatorID:       requesterID,
		CreatedAt:       now,
		ModifiedAt:      now,
	}
	if err := s.tags.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateTag
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, nil, activity.TypeTagCreated,
		fmt.Sprintf("tag %q created", t.Title))
	return t, nil
}

// List lists a project's tags. Any member may read.
func (s *Service) List(ctx context.Context, requesterID, projectPublicID string) ([]Tag, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	return s.tags.ListByProject(ctx, proj.ID)
}

// Delete removes a tag and its marks. Requires the Director role.
func (s *Service) Delete(ctx context.Context, requesterID, projectPublicID, tagID string) error {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionDeleteTag) {
		return membership.ErrNotAuthorized
	}
	t, err := s.loadTag(ctx, proj.ID, tagID)
	if err != nil {
		return err
	}

	if err := s.tags.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, nil, activity.TypeTagDeleted,
		fmt.Sprintf("tag %q deleted", t.Title))
	return nil
}

// Mark attaches a tag to a bug. Requires the Contributor role; bug and
// tag must both belong to the project.
func (s *Service) Mark(ctx context.Context, requesterID, projectPublicID, bugID, tagID string) (*Mark, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionMarkBug) {
		return nil, membership.ErrNotAuthorized
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	t, err := s.loadTag(ctx, proj.ID, tagID)
	if err != nil {
		return nil, err
	}

	mk := &Mark{
		ID:        uuid.NewString(),
		BugID:     b.ID,
		TagID:     t.ID,
		CreatorID: requesterID,
		CreatedAt: time.Now(),
	}
	if err := s.tags.CreateMark(ctx, mk); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyMarked
		}
		return nil, fmt.Errorf("creating mark: %w", err)
	}
	return mk, nil
}

// Unmark detaches a tag from a bug. Requires the Contributor role.
func (s *Service) Unmark(ctx context.Context, requesterID, projectPublicID, bugID, tagID string) error {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionMarkBug) {
		return membership.ErrNotAuthorized
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return err
	}
	t, err := s.loadTag(ctx, proj.ID, tagID)
	if err != nil {
		return err
	}

	if err := s.tags.DeleteMark(ctx, b.ID, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMarkNotFound
		}
		return fmt.Errorf("deleting mark: %w", err)
	}
	return nil
}

// BugTags lists the tags a bug carries. Any member may read.
func (s *Service) BugTags(ctx context.Context, requesterID, projectPublicID, bugID string) ([]Tag, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	return s.tags.ListMarksByBug(ctx, b.ID)
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

func (s *Service) loadTag(ctx context.Context, projectID, tagID string) (*Tag, error) {
	t, err := s.tags.Get(ctx, projectID, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return t, nil
}

func (s *Service) loadBug(ctx context.Context, projectID, bugID string) (*bug.Bug, error) {
	b, err := s.bugs.Get(ctx, projectID, bugID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, bug.ErrBugNotFound
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
		s.logger.Warn("failed to log tag activity", "type", typ, "error", err)
	}
}
