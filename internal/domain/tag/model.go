package tag

import "time"

// Tag is a project-scoped label. The (project, title, colors) tuple is
// unique within a project.
type Tag struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	Title           string    `json:"title"`
	TextColor       string    `json:"text_color"`
	BackgroundColor string    `json:"background_color"`
	BorderColor     string    `json:"border_color"`
	CreatorID       string    `json:"creator_id"`
	CreatedAt       time.Time `json:"created_at"`
	ModifiedAt      time.Time `json:"modified_at"`
}

// Mark attaches a tag to a bug; a bug carries each tag at most once.
type Mark struct {
	ID        string    `json:"id"`
	BugID     string    `json:"bug_id"`
	TagID     string    `json:"tag_id"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}
