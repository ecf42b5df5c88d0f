package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service handles the project activity trail.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an activity entry, stamping the time if missing. Trail
// writes ride along with the mutation that caused them; a failure here
// is surfaced so the caller can decide whether to report it.
func (s *Service) Log(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ProjectID == "" || entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Recent lists activity entries, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, opts)
}
