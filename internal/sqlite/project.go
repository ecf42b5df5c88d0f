package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = "id, public_id, title, description, creator_id, bug_index, created_at, modified_at"

// Create inserts the project and its creator's Administrator membership
// in one transaction. A public id collision surfaces as
// repository.ErrConflict so the caller can regenerate and retry.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project, creator *membership.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, public_id, title, description, creator_id, bug_index, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		proj.ID,
		proj.PublicID,
		proj.Title,
		proj.Description,
		proj.CreatorID,
		proj.BugIndex,
		proj.CreatedAt,
		proj.ModifiedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, project_id, role, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		creator.ID,
		creator.UserID,
		creator.ProjectID,
		string(creator.Role),
		creator.CreatedAt,
		creator.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create creator membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves a project by internal id
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	return r.getBy(ctx, "id", id)
}

// GetByPublicID retrieves a project by its public identifier
func (r *ProjectRepository) GetByPublicID(ctx context.Context, publicID string) (*project.Project, error) {
	return r.getBy(ctx, "public_id", publicID)
}

func (r *ProjectRepository) getBy(ctx context.Context, column, value string) (*project.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE %s = ?", projectColumns, column)

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&proj.ID,
		&proj.PublicID,
		&proj.Title,
		&proj.Description,
		&proj.CreatorID,
		&proj.BugIndex,
		&proj.CreatedAt,
		&proj.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// Update persists title and description edits
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, modified_at = ?
		WHERE id = ?
	`, proj.Title, proj.Description, proj.ModifiedAt, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
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

// Delete removes the project and everything scoped to it in one
// transaction: attachments, marks and assignments of its bugs, then the
// bugs, tags, memberships and finally the project row.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cascade := []string{
		"DELETE FROM attachments WHERE bug_id IN (SELECT id FROM bugs WHERE project_id = ?)",
		"DELETE FROM marks WHERE bug_id IN (SELECT id FROM bugs WHERE project_id = ?)",
		"DELETE FROM assignments WHERE bug_id IN (SELECT id FROM bugs WHERE project_id = ?)",
		"DELETE FROM bugs WHERE project_id = ?",
		"DELETE FROM tags WHERE project_id = ?",
		"DELETE FROM memberships WHERE project_id = ?",
	}
	for _, query := range cascade {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to cascade project delete: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
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

// ListByUser returns summaries of the projects the user belongs to,
// newest first, with the user's role in each
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.public_id,
			p.title,
			m.role,
			(SELECT COUNT(*) FROM memberships m2 WHERE m2.project_id = p.id) AS member_count,
			(SELECT COUNT(*) FROM bugs b WHERE b.project_id = p.id) AS bug_count,
			p.created_at
		FROM memberships m
		JOIN projects p ON p.id = m.project_id
		WHERE m.user_id = ?
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		var role string
		err := rows.Scan(
			&summary.ID,
			&summary.PublicID,
			&summary.Title,
			&role,
			&summary.MemberCount,
			&summary.BugCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.Role = membership.Role(role)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}
