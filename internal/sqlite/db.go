package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Cascades are applied explicitly by
// the repositories inside transactions, not by ON DELETE clauses, so the
// delete order stays visible in code.
func (db *DB) RunMigrations() error {
	migration := `
-- Users: one row per external principal
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    subject TEXT NOT NULL UNIQUE,
    public_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    locale TEXT NOT NULL DEFAULT '',
    picture TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL
);

-- Projects with the per-project bug sequence counter
CREATE TABLE projects (
    id TEXT PRIMARY KEY,
    public_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL REFERENCES users(id),
    bug_index INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL
);

-- Memberships: one per (user, project), the access-control anchor
CREATE TABLE memberships (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    project_id TEXT NOT NULL REFERENCES projects(id),
    role TEXT NOT NULL CHECK(role IN ('ADM', 'DIR', 'CON', 'SPE')),
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    UNIQUE(user_id, project_id)
);
CREATE INDEX idx_project_memberships ON memberships(project_id);

-- Bugs with the project-local sequence number
CREATE TABLE bugs (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    idx INTEGER NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    reporter_id TEXT NOT NULL REFERENCES users(id),
    reproducible INTEGER NOT NULL DEFAULT 0,
    impact INTEGER NOT NULL CHECK(impact BETWEEN 1 AND 5),
    urgency INTEGER NOT NULL CHECK(urgency BETWEEN 1 AND 5),
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    UNIQUE(project_id, idx)
);
CREATE INDEX idx_project_bugs ON bugs(project_id);

-- Tags: duplicate definitions within a project are rejected
CREATE TABLE tags (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    title TEXT NOT NULL,
    text_color TEXT NOT NULL,
    background_color TEXT NOT NULL,
    border_color TEXT NOT NULL,
    creator_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    UNIQUE(project_id, title, text_color, background_color, border_color)
);
CREATE INDEX idx_project_tags ON tags(project_id);

-- Marks: a bug carries each tag at most once
CREATE TABLE marks (
    id TEXT PRIMARY KEY,
    bug_id TEXT NOT NULL REFERENCES bugs(id),
    tag_id TEXT NOT NULL REFERENCES tags(id),
    creator_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE(bug_id, tag_id)
);

-- Assignments: a member is assigned to a bug at most once
CREATE TABLE assignments (
    id TEXT PRIMARY KEY,
    bug_id TEXT NOT NULL REFERENCES bugs(id),
    membership_id TEXT NOT NULL REFERENCES memberships(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE(bug_id, membership_id)
);
CREATE INDEX idx_membership_assignments ON assignments(membership_id);

-- Attachment metadata; bytes live in the blob store keyed by id
CREATE TABLE attachments (
    id TEXT PRIMARY KEY,
    bug_id TEXT NOT NULL REFERENCES bugs(id),
    title TEXT NOT NULL,
    size INTEGER NOT NULL,
    content_type TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_bug_attachments ON attachments(bug_id);

-- Activity trail
CREATE TABLE activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    bug_id TEXT,
    entry_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_project_activity ON activity_log(project_id);
CREATE INDEX idx_bug_activity ON activity_log(bug_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
