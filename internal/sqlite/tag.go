package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/repository"
)

// TagRepository implements tag.Repository for SQLite
type TagRepository struct {
	db *DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

const tagColumns = "id, project_id, title, text_color, background_color, border_color, creator_id, created_at, modified_at"

// Create inserts a tag. A duplicate (project, title, colors) definition
// surfaces as repository.ErrConflict.
func (r *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	query := `
		INSERT INTO tags (id, project_id, title, text_color, background_color, border_color, creator_id, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.TextColor,
		t.BackgroundColor,
		t.BorderColor,
		t.CreatorID,
		t.CreatedAt,
		t.ModifiedAt,
	)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// Get retrieves a tag scoped to a project
func (r *TagRepository) Get(ctx context.Context, projectID, id string) (*tag.Tag, error) {
	query := fmt.Sprintf("SELECT %s FROM tags WHERE id = ? AND project_id = ?", tagColumns)

	var t tag.Tag
	err := r.db.QueryRowContext(ctx, query, id, projectID).Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.TextColor,
		&t.BackgroundColor,
		&t.BorderColor,
		&t.CreatorID,
		&t.CreatedAt,
		&t.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &t, nil
}

// ListByProject returns a project's tags ordered by title
func (r *TagRepository) ListByProject(ctx context.Context, projectID string) ([]tag.Tag, error) {
	query := fmt.Sprintf("SELECT %s FROM tags WHERE project_id = ? ORDER BY title ASC", tagColumns)
	return r.list(ctx, query, projectID)
}

// Delete removes the tag and its marks in one transaction
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM marks WHERE tag_id = ?", id); err != nil {
		return fmt.Errorf("failed to cascade marks: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateMark inserts a mark. A duplicate (bug, tag) pair surfaces as
// repository.ErrConflict.
func (r *TagRepository) CreateMark(ctx context.Context, m *tag.Mark) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO marks (id, bug_id, tag_id, creator_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.BugID, m.TagID, m.CreatorID, m.CreatedAt)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to create mark: %w", err)
	}

	return nil
}

// DeleteMark removes a tag from a bug
func (r *TagRepository) DeleteMark(ctx context.Context, bugID, tagID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM marks WHERE bug_id = ? AND tag_id = ?",
		bugID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete mark: %w", err)
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

// ListMarksByBug returns the tags a bug carries
func (r *TagRepository) ListMarksByBug(ctx context.Context, bugID string) ([]tag.Tag, error) {
	query := `
		SELECT t.id, t.project_id, t.title, t.text_color, t.background_color, t.border_color, t.creator_id, t.created_at, t.modified_at
		FROM marks mk
		JOIN tags t ON t.id = mk.tag_id
		WHERE mk.bug_id = ?
		ORDER BY t.title ASC
	`
	return r.list(ctx, query, bugID)
}

func (r *TagRepository) list(ctx context.Context, query string, args ...any) ([]tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var t tag.Tag
		err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&t.TextColor,
			&t.BackgroundColor,
			&t.BorderColor,
			&t.CreatorID,
			&t.CreatedAt,
			&t.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}
