package user

import "time"

// User is an internal identity backed 1:1 by an external principal.
// Users are created on first successful authentication and never deleted.
type User struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	PublicID   string    `json:"public_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Locale     string    `json:"locale,omitempty"`
	Picture    string    `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Profile is the public-facing view of a user.
type Profile struct {
	PublicID         string `json:"public_id"`
	Name             string `json:"name"`
	Picture          string `json:"picture,omitempty"`
	MembershipsCount int    `json:"memberships_count"`
}

// Claims are the profile fields supplied by the identity provider on
// first authentication.
type Claims struct {
	Subject string
	Name    string
	Email   string
	Locale  string
	Picture string
}
