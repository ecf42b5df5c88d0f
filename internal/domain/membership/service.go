package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/google/uuid"
)

// Service is the membership and authorization engine. Every project-scoped
// operation in the system resolves a membership through it or applies the
// role rules it owns.
type Service struct {
	memberships Repository
	activities  ActivityRepository
	logger      *slog.Logger
}

// NewService creates a new membership service.
func NewService(memberships Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{memberships: memberships, activities: activities, logger: logger}
}

// Get resolves the membership of a user in a project. Absence is
// ErrNotMember, never an implicit Spectator.
func (s *Service) Get(ctx context.Context, userID, projectID string) (*Membership, error) {
	m, err := s.memberships.Get(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("getting membership: %w", err)
	}
	return m, nil
}

// ListMembers lists a project's members with profile fields. Any member
// may list.
func (s *Service) ListMembers(ctx context.Context, requesterID, projectID string) ([]Member, error) {
	if _, err := s.Get(ctx, requesterID, projectID); err != nil {
		return nil, err
	}
	return s.memberships.ListByProject(ctx, projectID)
}

// Add adds a user to a project with the Spectator role. Requires the
// requester to be an Administrator or Director. Elevation is a separate,
// explicit ChangeRole step.
func (s *Service) Add(ctx context.Context, requesterID, projectID, targetUserID string) (*Membership, error) {
	requester, err := s.Get(ctx, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	if !requester.Role.Allows(ActionAddMember) {
		return nil, ErrNotAuthorized
	}

	now := time.Now()
	m := &Membership{
		ID:         uuid.NewString(),
		UserID:     targetUserID,
		ProjectID:  projectID,
		Role:       RoleSpectator,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyMember
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("creating membership: %w", err)
	}

	s.logEvent(ctx, &activity.Entry{
		ProjectID: projectID,
		ActorID:   requesterID,
		Type:      activity.TypeMemberAdded,
		Summary:   "member added as Spectator",
	})
	return m, nil
}

// Remove deletes a user's membership from a project, cascading the
// membership's assignments. Directors cannot remove Administrators or
// fellow Directors, and the project's last Administrator cannot be removed.
func (s *Service) Remove(ctx context.Context, requesterID, projectID, targetUserID string) error {
	requester, err := s.Get(ctx, requesterID, projectID)
	if err != nil {
		return err
	}
	if !requester.Role.Allows(ActionRemoveMember) {
		return ErrNotAuthorized
	}

	target, err := s.memberships.Get(ctx, targetUserID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTargetNotMember
		}
		return fmt.Errorf("getting target membership: %w", err)
	}
	if !CanRemoveMember(requester.Role, target.Role) {
		return ErrNotAuthorized
	}
	if target.Role == RoleAdministrator {
		if err := s.ensureNotLastAdministrator(ctx, projectID); err != nil {
			return err
		}
	}

	if err := s.memberships.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	s.logEvent(ctx, &activity.Entry{
		ProjectID: projectID,
		ActorID:   requesterID,
		Type:      activity.TypeMemberRemoved,
		Summary:   fmt.Sprintf("member removed (was %s)", target.Role.Name()),
	})
	return nil
}

// ChangeRole moves a member to a new role per the transition table.
// Combinations absent from the table are denied, including setting the
// role the member already holds. Demoting the last Administrator is
// rejected.
func (s *Service) ChangeRole(ctx context.Context, requesterID, projectID, targetUserID string, next Role) (*Membership, error) {
	if !next.Valid() {
		return nil, ErrInvalidRole
	}

	requester, err := s.Get(ctx, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	target, err := s.memberships.Get(ctx, targetUserID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotMember
		}
		return nil, fmt.Errorf("getting target membership: %w", err)
	}

	if !CanChangeRole(requester.Role, target.Role, next) {
		return nil, ErrNotAuthorized
	}
	if target.Role == RoleAdministrator && next != RoleAdministrator {
		if err := s.ensureNotLastAdministrator(ctx, projectID); err != nil {
			return nil, err
		}
	}

	if err := s.memberships.UpdateRole(ctx, target.ID, next); err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}
	target.Role = next
	target.ModifiedAt = time.Now()

	s.logEvent(ctx, &activity.Entry{
		ProjectID: projectID,
		ActorID:   requesterID,
		Type:      activity.TypeRoleChanged,
		Summary:   fmt.Sprintf("member role changed to %s", next.Name()),
	})
	return target, nil
}

// Count returns the total number of memberships across all projects.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.memberships.Count(ctx)
}

func (s *Service) ensureNotLastAdministrator(ctx context.Context, projectID string) error {
	n, err := s.memberships.CountByRole(ctx, projectID, RoleAdministrator)
	if err != nil {
		return fmt.Errorf("counting administrators: %w", err)
	}
	if n <= 1 {
		return ErrLastAdministrator
	}
	return nil
}

func (s *Service) logEvent(ctx context.Context, entry *activity.Entry) {
	entry.CreatedAt = time.Now()
	if err := s.activities.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log membership activity", "type", entry.Type, "error", err)
	}
}
