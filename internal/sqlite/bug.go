package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/repository"
)

// BugRepository implements bug.Repository for SQLite
type BugRepository struct {
	db *DB
}

// NewBugRepository creates a new BugRepository
func NewBugRepository(db *DB) *BugRepository {
	return &BugRepository{db: db}
}

const bugColumns = "id, project_id, idx, title, description, reporter_id, reproducible, impact, urgency, created_at, modified_at"

// Create allocates the bug's project-local index and inserts the bug in
// one transaction. The counter increment and the insert commit together
// or not at all, so two concurrent reports can never share an index and
// the counter can never run ahead of the bugs.
func (r *BugRepository) Create(ctx context.Context, b *bug.Bug) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE projects SET bug_index = bug_index + 1, modified_at = CURRENT_TIMESTAMP WHERE id = ?",
		b.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment bug index: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	var index int64
	err = tx.QueryRowContext(ctx,
		"SELECT bug_index FROM projects WHERE id = ?", b.ProjectID,
	).Scan(&index)
	if err != nil {
		return fmt.Errorf("failed to read bug index: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bugs (id, project_id, idx, title, description, reporter_id, reproducible, impact, urgency, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID,
		b.ProjectID,
		index,
		b.Title,
		b.Description,
		b.ReporterID,
		b.Reproducible,
		b.Impact,
		b.Urgency,
		b.CreatedAt,
		b.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bug: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	b.Index = index
	return nil
}

// Get retrieves a bug scoped to a project. A bug id belonging to a
// different project is not found.
func (r *BugRepository) Get(ctx context.Context, projectID, id string) (*bug.Bug, error) {
	query := fmt.Sprintf("SELECT %s FROM bugs WHERE id = ? AND project_id = ?", bugColumns)

	var b bug.Bug
	err := r.db.QueryRowContext(ctx, query, id, projectID).Scan(
		&b.ID,
		&b.ProjectID,
		&b.Index,
		&b.Title,
		&b.Description,
		&b.ReporterID,
		&b.Reproducible,
		&b.Impact,
		&b.Urgency,
		&b.CreatedAt,
		&b.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug: %w", err)
	}

	return &b, nil
}

// ListByProject returns a project's bugs in index order
func (r *BugRepository) ListByProject(ctx context.Context, projectID string) ([]bug.Bug, error) {
	query := fmt.Sprintf("SELECT %s FROM bugs WHERE project_id = ? ORDER BY idx ASC", bugColumns)

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bugs: %w", err)
	}
	defer rows.Close()

	var bugs []bug.Bug
	for rows.Next() {
		var b bug.Bug
		err := rows.Scan(
			&b.ID,
			&b.ProjectID,
			&b.Index,
			&b.Title,
			&b.Description,
			&b.ReporterID,
			&b.Reproducible,
			&b.Impact,
			&b.Urgency,
			&b.CreatedAt,
			&b.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bug: %w", err)
		}
		bugs = append(bugs, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bug rows: %w", err)
	}

	return bugs, nil
}

// Update persists bug field edits
func (r *BugRepository) Update(ctx context.Context, b *bug.Bug) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bugs
		SET title = ?, description = ?, reproducible = ?, impact = ?, urgency = ?, modified_at = ?
		WHERE id = ?
	`, b.Title, b.Description, b.Reproducible, b.Impact, b.Urgency, b.ModifiedAt, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update bug: %w", err)
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

// Delete removes the bug and its marks, assignments and attachment rows
// in one transaction. The project's bug_index is left alone: indices of
// deleted bugs are never reused.
func (r *BugRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cascade := []string{
		"DELETE FROM marks WHERE bug_id = ?",
		"DELETE FROM assignments WHERE bug_id = ?",
		"DELETE FROM attachments WHERE bug_id = ?",
	}
	for _, query := range cascade {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to cascade bug delete: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM bugs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bug: %w", err)
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

// CreateAssignment inserts an assignment. A duplicate (bug, membership)
// pair surfaces as repository.ErrConflict.
func (r *BugRepository) CreateAssignment(ctx context.Context, a *bug.Assignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assignments (id, bug_id, membership_id, created_at)
		VALUES (?, ?, ?, ?)
	`, a.ID, a.BugID, a.MembershipID, a.CreatedAt)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// DeleteAssignment removes the assignment of a membership to a bug
func (r *BugRepository) DeleteAssignment(ctx context.Context, bugID, membershipID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM assignments WHERE bug_id = ? AND membership_id = ?",
		bugID, membershipID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
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

// ListAssignees returns who is assigned to the bug, joined with profile
// fields
func (r *BugRepository) ListAssignees(ctx context.Context, bugID string) ([]bug.Assignee, error) {
	query := `
		SELECT a.membership_id, u.public_id, u.name
		FROM assignments a
		JOIN memberships m ON m.id = a.membership_id
		JOIN users u ON u.id = m.user_id
		WHERE a.bug_id = ?
		ORDER BY a.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	defer rows.Close()

	var assignees []bug.Assignee
	for rows.Next() {
		var a bug.Assignee
		if err := rows.Scan(&a.MembershipID, &a.UserPublicID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan assignee: %w", err)
		}
		assignees = append(assignees, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignee rows: %w", err)
	}

	return assignees, nil
}

// IsAssigned reports whether the membership is assigned to the bug
func (r *BugRepository) IsAssigned(ctx context.Context, bugID, membershipID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assignments WHERE bug_id = ? AND membership_id = ?",
		bugID, membershipID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}
