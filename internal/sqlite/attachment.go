package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/repository"
)

// AttachmentRepository implements attachment.Repository for SQLite
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

const attachmentColumns = "id, bug_id, title, size, content_type, creator_id, created_at"

// Create inserts attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	query := `
		INSERT INTO attachments (id, bug_id, title, size, content_type, creator_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.BugID,
		a.Title,
		a.Size,
		a.ContentType,
		a.CreatorID,
		a.CreatedAt,
	)

	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

// Get retrieves an attachment scoped to a bug
func (r *AttachmentRepository) Get(ctx context.Context, bugID, id string) (*attachment.Attachment, error) {
	query := fmt.Sprintf("SELECT %s FROM attachments WHERE id = ? AND bug_id = ?", attachmentColumns)

	var a attachment.Attachment
	err := r.db.QueryRowContext(ctx, query, id, bugID).Scan(
		&a.ID,
		&a.BugID,
		&a.Title,
		&a.Size,
		&a.ContentType,
		&a.CreatorID,
		&a.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return &a, nil
}

// ListByBug returns a bug's attachments, oldest first
func (r *AttachmentRepository) ListByBug(ctx context.Context, bugID string) ([]attachment.Attachment, error) {
	query := fmt.Sprintf("SELECT %s FROM attachments WHERE bug_id = ? ORDER BY created_at ASC", attachmentColumns)

	rows, err := r.db.QueryContext(ctx, query, bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []attachment.Attachment
	for rows.Next() {
		var a attachment.Attachment
		err := rows.Scan(
			&a.ID,
			&a.BugID,
			&a.Title,
			&a.Size,
			&a.ContentType,
			&a.CreatorID,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", err)
	}

	return attachments, nil
}

// ListIDsByBug returns the ids of a bug's attachments, for blob cleanup
func (r *AttachmentRepository) ListIDsByBug(ctx context.Context, bugID string) ([]string, error) {
	return r.listIDs(ctx, "SELECT id FROM attachments WHERE bug_id = ?", bugID)
}

// ListIDsByProject returns the ids of every attachment in a project,
// for blob cleanup on project deletion
func (r *AttachmentRepository) ListIDsByProject(ctx context.Context, projectID string) ([]string, error) {
	return r.listIDs(ctx,
		"SELECT id FROM attachments WHERE bug_id IN (SELECT id FROM bugs WHERE project_id = ?)",
		projectID,
	)
}

func (r *AttachmentRepository) listIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachment ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attachment id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment id rows: %w", err)
	}

	return ids, nil
}

// Delete removes an attachment row
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
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
