package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/repository"
)

// UserRepository implements user.Repository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, subject, public_id, name, email, locale, picture, created_at, modified_at"

// Create inserts a user. Duplicate subject or public id surfaces as
// repository.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, subject, public_id, name, email, locale, picture, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Subject,
		u.PublicID,
		u.Name,
		u.Email,
		u.Locale,
		u.Picture,
		u.CreatedAt,
		u.ModifiedAt,
	)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Get retrieves a user by internal id
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySubject retrieves a user by principal subject
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	return r.getBy(ctx, "subject", subject)
}

// GetByPublicID retrieves a user by public id
func (r *UserRepository) GetByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	return r.getBy(ctx, "public_id", publicID)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = ?", userColumns, column)

	var u user.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.Subject,
		&u.PublicID,
		&u.Name,
		&u.Email,
		&u.Locale,
		&u.Picture,
		&u.CreatedAt,
		&u.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Update persists mutable profile fields
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, locale = ?, picture = ?, modified_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Locale, u.Picture, u.ModifiedAt, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Search returns profiles whose names contain every query word.
func (r *UserRepository) Search(ctx context.Context, words []string, limit int) ([]user.Profile, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT u.public_id, u.name, u.picture,
			(SELECT COUNT(*) FROM memberships m WHERE m.user_id = u.id) AS memberships_count
		FROM users u
		WHERE 1 = 1
	`)

	args := make([]any, 0, len(words)+1)
	for _, word := range words {
		sb.WriteString(" AND u.name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(word)+"%")
	}
	sb.WriteString(" ORDER BY u.name ASC LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var profiles []user.Profile
	for rows.Next() {
		var p user.Profile
		if err := rows.Scan(&p.PublicID, &p.Name, &p.Picture, &p.MembershipsCount); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// CountMemberships returns how many projects the user belongs to
func (r *UserRepository) CountMemberships(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memberships WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
