package membership

import "time"

// Membership binds a user to a project with exactly one role. The
// (user, project) pair is unique.
type Membership struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProjectID  string    `json:"project_id"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Member is a membership joined with the user's public profile fields.
type Member struct {
	Membership
	UserPublicID string `json:"user_public_id"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
}
