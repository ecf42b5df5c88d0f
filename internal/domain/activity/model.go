package activity

import "time"

// EntryType classifies an event in a project's activity trail.
type EntryType string

const (
	TypeBugReported       EntryType = "bug_reported"
	TypeBugEdited         EntryType = "bug_edited"
	TypeBugDeleted        EntryType = "bug_deleted"
	TypeBugAssigned       EntryType = "bug_assigned"
	TypeBugUnassigned     EntryType = "bug_unassigned"
	TypeMemberAdded       EntryType = "member_added"
	TypeMemberRemoved     EntryType = "member_removed"
	TypeRoleChanged       EntryType = "role_changed"
	TypeTagCreated        EntryType = "tag_created"
	TypeTagDeleted        EntryType = "tag_deleted"
	TypeAttachmentAdded   EntryType = "attachment_added"
	TypeAttachmentDeleted EntryType = "attachment_deleted"
)

// Entry is one event in a project's activity trail.
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	ActorID   string    `json:"actor_id"`
	BugID     *string   `json:"bug_id,omitempty"`
	Type      EntryType `json:"type"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
