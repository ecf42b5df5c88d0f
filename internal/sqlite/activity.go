package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/bugpen/bugpen/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an entry to the project's activity trail
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (project_id, actor_id, bug_id, entry_type, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ProjectID,
		entry.ActorID,
		entry.BugID,
		string(entry.Type),
		entry.Summary,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}

	return nil
}

// List returns activity entries, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, project_id, actor_id, bug_id, entry_type, summary, created_at
		FROM activity_log
		WHERE project_id = ?
	`)

	args := []any{opts.ProjectID}
	if opts.BugID != nil {
		sb.WriteString(" AND bug_id = ?")
		args = append(args, *opts.BugID)
	}
	if opts.Type != nil {
		sb.WriteString(" AND entry_type = ?")
		args = append(args, string(*opts.Type))
	}

	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	sb.WriteString(" LIMIT ?")
	args = append(args, limit)
	if opts.Offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var entryType string
		err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&entry.ActorID,
			&entry.BugID,
			&entryType,
			&entry.Summary,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.Type = activity.EntryType(entryType)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
