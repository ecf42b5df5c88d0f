package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/repository"
)

// MembershipRepository implements membership.Repository for SQLite
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = "id, user_id, project_id, role, created_at, modified_at"

// Create inserts a membership. A duplicate (user, project) pair surfaces
// as repository.ErrConflict; a missing user or project as
// repository.ErrForeignKeyViolation.
func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, project_id, role, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		m.ProjectID,
		string(m.Role),
		m.CreatedAt,
		m.ModifiedAt,
	)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

// Get retrieves the membership of a user in a project
func (r *MembershipRepository) Get(ctx context.Context, userID, projectID string) (*membership.Membership, error) {
	query := fmt.Sprintf("SELECT %s FROM memberships WHERE user_id = ? AND project_id = ?", membershipColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, projectID))
}

// GetByID retrieves a membership by id
func (r *MembershipRepository) GetByID(ctx context.Context, id string) (*membership.Membership, error) {
	query := fmt.Sprintf("SELECT %s FROM memberships WHERE id = ?", membershipColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *MembershipRepository) scanOne(row *sql.Row) (*membership.Membership, error) {
	var m membership.Membership
	var role string
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.ProjectID,
		&role,
		&m.CreatedAt,
		&m.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	m.Role = membership.Role(role)
	return &m, nil
}

// ListByProject returns a project's members joined with profile fields,
// ordered by join time
func (r *MembershipRepository) ListByProject(ctx context.Context, projectID string) ([]membership.Member, error) {
	query := `
		SELECT m.id, m.user_id, m.project_id, m.role, m.created_at, m.modified_at,
			u.public_id, u.name, u.picture
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = ?
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []membership.Member
	for rows.Next() {
		var member membership.Member
		var role string
		err := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.ProjectID,
			&role,
			&member.CreatedAt,
			&member.ModifiedAt,
			&member.UserPublicID,
			&member.Name,
			&member.Picture,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.Role = membership.Role(role)
		members = append(members, member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// UpdateRole sets the membership's role. The single-row update is atomic
// relative to concurrent authorization reads: a check sees either the
// old role or the new one, never a mix.
func (r *MembershipRepository) UpdateRole(ctx context.Context, id string, role membership.Role) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET role = ?, modified_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
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

// Delete removes the membership and its assignments in one transaction.
// Bugs referenced by those assignments persist.
func (r *MembershipRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE membership_id = ?", id); err != nil {
		return fmt.Errorf("failed to cascade assignments: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM memberships WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
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

// CountByRole counts a project's memberships holding the role
func (r *MembershipRepository) CountByRole(ctx context.Context, projectID string, role membership.Role) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memberships WHERE project_id = ? AND role = ?",
		projectID, string(role),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships by role: %w", err)
	}
	return count, nil
}

// Count returns the total number of memberships
func (r *MembershipRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memberships").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}
