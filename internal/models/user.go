// Package models contains data structures for the application's domain models.
package models

import "time"

// User mirrors a user document in the remote store. AccountID links the
// document to the auth principal that owns it.
type User struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	ImageID   string    `json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
