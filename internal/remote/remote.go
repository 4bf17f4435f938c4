// Package remote defines the capability surface of the hosted backend
// service this application is a client of: auth principals and sessions, a
// schemaless document database with query filters, blob storage with derived
// preview URLs, and an initials-avatar generator. Implementations live in
// the httpstore (hosted service) and localstore (in-process, development and
// tests) subpackages.
package remote

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors implementations translate service responses into. The
// access layer maps these onto its own error taxonomy.
var (
	ErrNotFound     = errors.New("remote: not found")
	ErrUnauthorized = errors.New("remote: unauthorized")
	ErrConflict     = errors.New("remote: conflict")
	ErrUnavailable  = errors.New("remote: service unavailable")
)

// Account is an auth principal.
type Account struct {
	ID    string
	Email string
	Name  string
}

// Session is an authenticated session for an account. Secret is the opaque
// token presented on subsequent requests.
type Session struct {
	ID        string
	AccountID string
	Secret    string
	ExpiresAt time.Time
}

// Document is a schemaless document. Timestamps are owned by the store.
type Document struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]any
}

// File is a stored blob reference.
type File struct {
	ID   string
	Name string
	Size int64
}

// Auth provides principal and session operations.
type Auth interface {
	// CreateAccount registers a new auth principal. There is no
	// delete-principal primitive on this surface.
	CreateAccount(ctx context.Context, id, email, password, name string) (*Account, error)
	CreateSession(ctx context.Context, email, password string) (*Session, error)
	// CurrentAccount resolves the active session's principal. It returns
	// (nil, nil) when no session is active; that is a recoverable state,
	// not an error.
	CurrentAccount(ctx context.Context) (*Account, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Documents provides CRUD over collections of schemaless documents.
type Documents interface {
	CreateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*Document, error)
	GetDocument(ctx context.Context, collectionID, documentID string) (*Document, error)
	ListDocuments(ctx context.Context, collectionID string, queries ...Query) ([]Document, error)
	UpdateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, collectionID, documentID string) error
}

// Storage provides blob storage with derived preview URLs.
type Storage interface {
	CreateFile(ctx context.Context, bucketID, fileID, name string, data []byte) (*File, error)
	// FilePreviewURL derives a rendition URL for a stored blob.
	FilePreviewURL(ctx context.Context, bucketID, fileID string, width, height int, gravity string, quality int) (string, error)
	DeleteFile(ctx context.Context, bucketID, fileID string) error
}

// Avatars derives placeholder avatar URLs.
type Avatars interface {
	InitialsURL(name string) string
}

// Store is the full remote capability consumed by the access layer.
type Store interface {
	Auth
	Documents
	Storage
	Avatars
}
