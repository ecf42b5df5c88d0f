package bug

import "time"

// Impact and urgency are bounded severity scores.
const (
	ScoreMin = 1
	ScoreMax = 5
)

// Bug is a project-scoped report. Index is the project-local sequence
// number: (project, index) is the stable human-facing identifier,
// distinct from the internal id.
type Bug struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Index        int64     `json:"index"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ReporterID   string    `json:"reporter_id"`
	Reproducible bool      `json:"reproducible"`
	Impact       int       `json:"impact"`
	Urgency      int       `json:"urgency"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Assignment binds a membership to a bug. Deleting the membership
// deletes its assignments; the bug persists.
type Assignment struct {
	ID           string    `json:"id"`
	BugID        string    `json:"bug_id"`
	MembershipID string    `json:"membership_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Assignee is an assignment joined with the member's profile fields.
type Assignee struct {
	MembershipID string `json:"membership_id"`
	UserPublicID string `json:"user_public_id"`
	Name         string `json:"name"`
}
