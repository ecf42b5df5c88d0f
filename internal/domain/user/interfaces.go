package user

import "context"

// Repository provides persistence for users.
type Repository interface {
	// Create inserts the user. A public id collision is reported as
	// repository.ErrConflict.
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByPublicID(ctx context.Context, publicID string) (*User, error)
	Update(ctx context.Context, u *User) error
	// Search matches every word of the query against user names,
	// returning at most limit profiles.
	Search(ctx context.Context, words []string, limit int) ([]Profile, error)
	CountMemberships(ctx context.Context, userID string) (int, error)
}
