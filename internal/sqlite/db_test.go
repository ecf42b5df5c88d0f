package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertUser(t *testing.T, db *DB, id string) {
	t.Helper()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO users (id, subject, public_id, name, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, "subject-"+id, "PUB-"+id, "User "+id, now, now)
	require.NoError(t, err, "failed to insert user %s", id)
}

func insertProject(t *testing.T, db *DB, id, creatorID string) {
	t.Helper()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO projects (id, public_id, title, creator_id, bug_index, created_at, modified_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, id, "PUB-"+id, "Project "+id, creatorID, now, now)
	require.NoError(t, err, "failed to insert project %s", id)
}

func insertMembership(t *testing.T, db *DB, id, userID, projectID, role string) {
	t.Helper()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO memberships (id, user_id, project_id, role, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, userID, projectID, role, now, now)
	require.NoError(t, err, "failed to insert membership %s", id)
}

func insertBug(t *testing.T, db *DB, id, projectID, reporterID string, idx int64) {
	t.Helper()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO bugs (id, project_id, idx, title, reporter_id, reproducible, impact, urgency, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, 0, 3, 3, ?, ?)
	`, id, projectID, idx, fmt.Sprintf("Bug %s", id), reporterID, now, now)
	require.NoError(t, err, "failed to insert bug %s", id)
}

func countRows(t *testing.T, db *DB, table, where string, args ...any) int {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&count)
	require.NoError(t, err, "failed to count rows in %s", table)
	return count
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"users",
		"projects",
		"memberships",
		"bugs",
		"tags",
		"marks",
		"assignments",
		"attachments",
		"activity_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestRoleConstraint verifies the membership role check
func TestRoleConstraint(t *testing.T) {
	db := NewTestDB(t)
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")

	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO memberships (id, user_id, project_id, role, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, "m1", "u1", "p1", "OWNER", now, now)
	require.Error(t, err, "should reject an unknown role code")
}

// TestScoreConstraints verifies the bug impact and urgency bounds
func TestScoreConstraints(t *testing.T) {
	db := NewTestDB(t)
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")

	now := time.Now()
	for _, scores := range [][2]int{{0, 3}, {6, 3}, {3, 0}, {3, 6}} {
		_, err := db.Exec(`
			INSERT INTO bugs (id, project_id, idx, title, reporter_id, reproducible, impact, urgency, created_at, modified_at)
			VALUES (?, ?, 1, ?, ?, 0, ?, ?, ?, ?)
		`, "b1", "p1", "Bug", "u1", scores[0], scores[1], now, now)
		require.Error(t, err, "should reject impact=%d urgency=%d", scores[0], scores[1])
	}
}
