// Package access sequences remote store calls into single logical
// operations. Each operation either fully succeeds or compensates the side
// effects it created itself (uploaded blobs in particular), and returns a
// typed error from the models taxonomy instead of swallowing failures.
package access

import (
	"errors"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/remote"

	"go.opentelemetry.io/otel/trace"
)

// tracer resolves the global tracer at call time so operations pick up the
// provider installed by InitTracing.
func tracer() trace.Tracer {
	return observability.Tracer
}

// Config names the collections and bucket the access layer operates on.
type Config struct {
	UsersCollectionID string
	PostsCollectionID string
	SavesCollectionID string
	StorageBucketID   string
}

// Service wraps a remote store with orchestration and error mapping. It is
// stateless; every call is an independent chain of remote operations with no
// mutual exclusion between concurrent callers.
type Service struct {
	store remote.Store
	cfg   Config
	log   *observability.Logger
}

// New creates an access layer over the given remote store.
func New(store remote.Store, cfg Config) *Service {
	return &Service{store: store, cfg: cfg, log: observability.GlobalLogger}
}

// Status reports the outcome of a delete-style operation that signals
// success or failure as a value rather than an exception.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// mapRemote translates a remote sentinel error into the application error
// taxonomy, keeping the cause wrapped for errors.Is/As.
func mapRemote(err error, message string) *models.AppError {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return &models.AppError{Code: models.CodeNotFound, Message: message, Err: err}
	case errors.Is(err, remote.ErrUnauthorized):
		return models.NewAuthError(message, err)
	case errors.Is(err, remote.ErrConflict):
		return &models.AppError{Code: models.CodeValidation, Message: message, Err: err}
	default:
		return models.NewRemoteError(message, err)
	}
}

func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func fieldStrings(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func docToUser(d remote.Document) *models.User {
	return &models.User{
		ID:        d.ID,
		AccountID: fieldString(d.Fields, "accountId"),
		Name:      fieldString(d.Fields, "name"),
		Username:  fieldString(d.Fields, "username"),
		Email:     fieldString(d.Fields, "email"),
		Bio:       fieldString(d.Fields, "bio"),
		ImageURL:  fieldString(d.Fields, "imageUrl"),
		ImageID:   fieldString(d.Fields, "imageId"),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func docToPost(d remote.Document) *models.Post {
	return &models.Post{
		ID:        d.ID,
		CreatorID: fieldString(d.Fields, "creator"),
		Caption:   fieldString(d.Fields, "caption"),
		ImageURL:  fieldString(d.Fields, "imageUrl"),
		ImageID:   fieldString(d.Fields, "imageId"),
		Location:  fieldString(d.Fields, "location"),
		Tags:      fieldStrings(d.Fields, "tags"),
		Likes:     fieldStrings(d.Fields, "likes"),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func docToSavedPost(d remote.Document) *models.SavedPost {
	return &models.SavedPost{
		ID:        d.ID,
		UserID:    fieldString(d.Fields, "user"),
		PostID:    fieldString(d.Fields, "post"),
		CreatedAt: d.CreatedAt,
	}
}
