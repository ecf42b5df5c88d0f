package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
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

const maxTitleLen = 200

// Service is the attachment resource manager.
type Service struct {
	attachments Repository
	projects    ProjectRepository
	memberships MembershipRepository
	bugs        BugRepository
	blobs       BlobStore
	activities  ActivityRepository
	logger      *slog.Logger
}

// NewService creates a new attachment service.
func NewService(
	attachments Repository,
	projects ProjectRepository,
	memberships MembershipRepository,
	bugs BugRepository,
	blobs BlobStore,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		attachments: attachments,
		projects:    projects,
		memberships: memberships,
		bugs:        bugs,
		blobs:       blobs,
		activities:  activities,
		logger:      logger,
	}
}

// UploadRequest carries the file being attached.
type UploadRequest struct {
	Title       string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Upload attaches a file to a bug. Requires the Contributor role. Bytes
// are written to the blob store first; if the metadata insert fails the
// blob is removed so neither side survives alone.
func (s *Service) Upload(ctx context.Context, requesterID, projectPublicID, bugID string, req UploadRequest) (*Attachment, error) {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	if !m.Role.Allows(membership.ActionUploadAttachment) {
		return nil, membership.ErrNotAuthorized
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" || len(req.Title) > maxTitleLen {
		return nil, ErrInvalidInput
	}
	if req.Size < 0 || req.Content == nil {
		return nil, ErrInvalidInput
	}

	a := &Attachment{
		ID:          uuid.NewString(),
		BugID:       b.ID,
		Title:       req.Title,
		Size:        req.Size,
		ContentType: req.ContentType,
		CreatorID:   requesterID,
		CreatedAt:   time.Now(),
	}

	if err := s.blobs.Put(ctx, a.ID, req.Content); err != nil {
		return nil, fmt.Errorf("storing attachment bytes: %w", err)
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		if delErr := s.blobs.Delete(ctx, a.ID); delErr != nil && s.logger != nil {
			s.logger.Warn("failed to clean up orphaned blob", "attachment", a.ID, "error", delErr)
		}
		return nil, fmt.Errorf("creating attachment: %w", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeAttachmentAdded,
		fmt.Sprintf("attachment %q added to bug #%d", a.Title, b.Index))
	return a, nil
}

// List lists a bug's attachments. Any member may read.
func (s *Service) List(ctx context.Context, requesterID, projectPublicID, bugID string) ([]Attachment, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, err
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return nil, err
	}
	return s.attachments.ListByBug(ctx, b.ID)
}

// Download streams an attachment's bytes. Any member may read. The
// caller closes the reader.
func (s *Service) Download(ctx context.Context, requesterID, projectPublicID, bugID, attachmentID string) (*Attachment, io.ReadCloser, error) {
	proj, _, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.load(ctx, b.ID, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Get(ctx, a.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reading attachment bytes: %w", err)
	}
	return a, rc, nil
}

// Delete removes an attachment. Requires the Director role or being the
// attachment's creator.
func (s *Service) Delete(ctx context.Context, requesterID, projectPublicID, bugID, attachmentID string) error {
	proj, m, err := s.member(ctx, requesterID, projectPublicID)
	if err != nil {
		return err
	}
	b, err := s.loadBug(ctx, proj.ID, bugID)
	if err != nil {
		return err
	}
	a, err := s.load(ctx, b.ID, attachmentID)
	if err != nil {
		return err
	}
	if !m.Role.Allows(membership.ActionDeleteAttachment) && a.CreatorID != requesterID {
		return membership.ErrNotAuthorized
	}

	if err := s.attachments.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	if err := s.blobs.Delete(ctx, a.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to delete attachment blob", "attachment", a.ID, "error", err)
	}

	s.logEvent(ctx, proj.ID, requesterID, &b.ID, activity.TypeAttachmentDeleted,
		fmt.Sprintf("attachment %q deleted from bug #%d", a.Title, b.Index))
	return nil
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

func (s *Service) load(ctx context.Context, bugID, attachmentID string) (*Attachment, error) {
	a, err := s.attachments.Get(ctx, bugID, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("getting attachment: %w", err)
	}
	return a, nil
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
		s.logger.Warn("failed to log attachment activity", "type", typ, "error", err)
	}
}
