package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bugpen/bugpen/internal/repository"
	"github.com/bugpen/bugpen/internal/token"
	"github.com/google/uuid"
)

const (
	publicIDLength = 8
	// maxIDAttempts bounds the generate-and-insert retry loop for
	// public ids before surfacing exhaustion.
	maxIDAttempts = 5

	searchLimit = 10
)

// Service is the user directory.
type Service struct {
	users  Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(users Repository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// FindOrCreate resolves the verified principal to an internal user,
// creating one with the supplied profile claims on first authentication.
func (s *Service) FindOrCreate(ctx context.Context, claims Claims) (*User, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.users.GetBySubject(ctx, claims.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	now := time.Now()
	u = &User{
		ID:         uuid.NewString(),
		Subject:    claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		Locale:     claims.Locale,
		Picture:    claims.Picture,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		u.PublicID = token.New(publicIDLength)
		err = s.users.Create(ctx, u)
		if err == nil {
			if s.logger != nil {
				s.logger.Info("created user", "public_id", u.PublicID)
			}
			return u, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		// Two first-time requests for the same principal can race here:
		// the second insert trips the subject uniqueness constraint, not
		// the public id one. Re-resolve before retrying the id.
		if existing, lookupErr := s.users.GetBySubject(ctx, claims.Subject); lookupErr == nil {
			return existing, nil
		}
	}
	return nil, ErrIDExhausted
}

// Get fetches a user by internal id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetByPublicID fetches a user by public id.
func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*User, error) {
	u, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// Profile returns the public-facing view of a user by public id.
func (s *Service) Profile(ctx context.Context, publicID string) (*Profile, error) {
	u, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	count, err := s.users.CountMemberships(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("counting memberships: %w", err)
	}
	return &Profile{
		PublicID:         u.PublicID,
		Name:             u.Name,
		Picture:          u.Picture,
		MembershipsCount: count,
	}, nil
}

// Search finds profiles whose names match every word of the query.
func (s *Service) Search(ctx context.Context, query string) ([]Profile, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, ErrInvalidInput
	}
	profiles, err := s.users.Search(ctx, words, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	return profiles, nil
}

// UpdateRequest carries the profile fields a user may change.
type UpdateRequest struct {
	Name    *string
	Locale  *string
	Picture *string
}

// Update modifies the caller's own profile fields.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		u.Name = *req.Name
	}
	if req.Locale != nil {
		u.Locale = *req.Locale
	}
	if req.Picture != nil {
		u.Picture = *req.Picture
	}
	u.ModifiedAt = time.Now()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}
