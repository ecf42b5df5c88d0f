package attachment

import "time"

// Attachment is file metadata bound to a bug; the bytes live in the
// blob store under the attachment id.
type Attachment struct {
	ID          string    `json:"id"`
	BugID       string    `json:"bug_id"`
	Title       string    `json:"title"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}
