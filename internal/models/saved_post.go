package models

import "time"

// SavedPost is the join document bookmarking a post for a user. It is
// created and deleted as a unit; there is no partial state.
type SavedPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
