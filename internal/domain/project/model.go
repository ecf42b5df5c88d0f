package project

import (
	"time"

	"github.com/bugpen/bugpen/internal/domain/membership"
)

// Project owns a per-project bug sequence counter. BugIndex is the index
// most recently handed out; the next reported bug receives BugIndex+1.
type Project struct {
	ID          string    `json:"id"`
	PublicID    string    `json:"public_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id"`
	BugIndex    int64     `json:"bug_index"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Summary is the per-membership listing view of a project.
type Summary struct {
	ID          string          `json:"id"`
	PublicID    string          `json:"public_id"`
	Title       string          `json:"title"`
	Role        membership.Role `json:"role"`
	MemberCount int             `json:"member_count"`
	BugCount    int             `json:"bug_count"`
	CreatedAt   time.Time       `json:"created_at"`
}
