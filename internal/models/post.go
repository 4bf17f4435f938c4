package models

import "time"

// Post mirrors a post document in the remote store. ImageURL and ImageID
// always change together: the ID is needed to delete the blob later, the URL
// is what clients render. Likes holds the full set of liker user IDs; the
// remote store is the only source of truth for it.
type Post struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Creator   *User     `json:"creator,omitempty"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url"`
	ImageID   string    `json:"image_id"`
	Location  string    `json:"location"`
	Tags      []string  `json:"tags"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
