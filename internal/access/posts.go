package access

import (
	"context"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/remote"

	"github.com/google/uuid"
)

// NewPost is the post creation input. Exactly one file is required.
type NewPost struct {
	CreatorID string
	Caption   string
	Location  string
	Tags      string
	File      FileUpload
}

// UpdatePost is the post update input. ImageURL/ImageID carry the post's
// existing image pair; File, when non-empty, replaces it.
type UpdatePost struct {
	PostID   string
	Caption  string
	Location string
	Tags     string
	ImageURL string
	ImageID  string
	File     *FileUpload
}

// ParseTags splits a comma-separated tags string into a list, stripping all
// spaces first. Empty input yields an empty list, never a list containing
// the empty string.
func ParseTags(tags string) []string {
	stripped := strings.ReplaceAll(tags, " ", "")
	if stripped == "" {
		return []string{}
	}
	parts := strings.Split(stripped, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreatePost uploads the file, resolves its preview URL, and creates the
// post document referencing both. If any step after the upload fails the
// uploaded blob is deleted exactly once before the error is returned, so a
// failed creation leaves no orphaned resources behind.
func (s *Service) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.CreatePost")
	defer span.End()

	if in.CreatorID == "" {
		return nil, models.NewValidationError("Creator id is required")
	}
	if len(in.File.Data) == 0 {
		return nil, models.NewValidationError("A file is required")
	}

	var (
		uploaded   *remote.File
		previewURL string
		doc        *remote.Document
	)

	sg := &saga{operation: "create_post", steps: []sagaStep{
		{
			name: "upload_file",
			run: func(ctx context.Context) error {
				f, err := s.UploadFile(ctx, in.File)
				if err != nil {
					return err
				}
				uploaded = f
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.removeFile(ctx, uploaded.ID)
			},
		},
		{
			name: "resolve_preview",
			run: func(ctx context.Context) error {
				url, err := s.FilePreviewURL(ctx, uploaded.ID)
				if err != nil {
					return models.NewPostCreationError("File preview URL not found", err)
				}
				previewURL = url
				return nil
			},
		},
		{
			name: "create_document",
			run: func(ctx context.Context) error {
				created, err := s.store.CreateDocument(ctx, s.cfg.PostsCollectionID, uuid.NewString(), map[string]any{
					"creator":  in.CreatorID,
					"caption":  in.Caption,
					"imageUrl": previewURL,
					"imageId":  uploaded.ID,
					"location": in.Location,
					"tags":     ParseTags(in.Tags),
					"likes":    []string{},
				})
				if err != nil {
					return models.NewPostCreationError("Post not created", mapRemote(err, "Post not created"))
				}
				doc = created
				return nil
			},
		},
	}}

	if err := sg.execute(ctx); err != nil {
		return nil, err
	}
	return docToPost(*doc), nil
}

// UpdatePost updates a post document, optionally replacing its image. When a
// new file is supplied it is uploaded and resolved first; if the document
// update then fails, the new file is deleted and the old one stays
// referenced by the unchanged document. The old file is deleted only after
// the update is confirmed, never before.
func (s *Service) UpdatePost(ctx context.Context, in UpdatePost) (*models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.UpdatePost")
	defer span.End()

	if in.PostID == "" {
		return nil, models.NewValidationError("Post id is required")
	}

	hasNewFile := in.File != nil && len(in.File.Data) > 0
	imageURL, imageID := in.ImageURL, in.ImageID

	var (
		uploaded *remote.File
		doc      *remote.Document
	)

	sg := &saga{operation: "update_post"}
	if hasNewFile {
		sg.steps = append(sg.steps,
			sagaStep{
				name: "upload_file",
				run: func(ctx context.Context) error {
					f, err := s.UploadFile(ctx, *in.File)
					if err != nil {
						return err
					}
					uploaded = f
					return nil
				},
				compensate: func(ctx context.Context) error {
					return s.removeFile(ctx, uploaded.ID)
				},
			},
			sagaStep{
				name: "resolve_preview",
				run: func(ctx context.Context) error {
					url, err := s.FilePreviewURL(ctx, uploaded.ID)
					if err != nil {
						return err
					}
					imageURL, imageID = url, uploaded.ID
					return nil
				},
			},
		)
	}
	sg.steps = append(sg.steps, sagaStep{
		name: "update_document",
		run: func(ctx context.Context) error {
			updated, err := s.store.UpdateDocument(ctx, s.cfg.PostsCollectionID, in.PostID, map[string]any{
				"caption":  in.Caption,
				"imageUrl": imageURL,
				"imageId":  imageID,
				"location": in.Location,
				"tags":     ParseTags(in.Tags),
			})
			if err != nil {
				return mapRemote(err, "Post not updated")
			}
			doc = updated
			return nil
		},
	})

	if err := sg.execute(ctx); err != nil {
		return nil, err
	}

	// The document now references the new image; the old blob is unreachable
	// and can go. A failure here orphans it, which is logged and counted but
	// does not fail the update.
	if hasNewFile && in.ImageID != "" {
		if err := s.removeFile(ctx, in.ImageID); err != nil {
			observability.LogOrphanedBlob(ctx, "update_post", in.ImageID, err)
			observability.OrphanedBlobs.WithLabelValues("update_post").Inc()
		}
	}
	return docToPost(*doc), nil
}

// DeletePost deletes a post document and then its image blob. Missing either
// identifier is a no-op that issues no remote calls. If the blob delete
// fails after the document delete succeeded the blob is orphaned; that is
// surfaced as a partial failure.
func (s *Service) DeletePost(ctx context.Context, postID, imageID string) (*Status, error) {
	ctx, span := tracer().Start(ctx, "access.DeletePost")
	defer span.End()

	if postID == "" || imageID == "" {
		return &Status{OK: true, Message: "Nothing to delete"}, nil
	}

	if err := s.store.DeleteDocument(ctx, s.cfg.PostsCollectionID, postID); err != nil {
		return nil, mapRemote(err, "Post not deleted")
	}

	if err := s.removeFile(ctx, imageID); err != nil {
		observability.LogOrphanedBlob(ctx, "delete_post", imageID, err)
		observability.OrphanedBlobs.WithLabelValues("delete_post").Inc()
		return nil, models.NewPartialFailureError("Post deleted but its image blob was not", err)
	}
	return &Status{OK: true, Message: "Post deleted"}, nil
}

// LikePost overwrites a post's liker set with the full set computed by the
// caller. There is no read-modify-write locking: two callers toggling from
// the same stale base will silently overwrite each other. That lost-update
// race is part of this operation's contract.
func (s *Service) LikePost(ctx context.Context, postID string, likes []string) (*models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.LikePost")
	defer span.End()

	if postID == "" {
		return nil, models.NewValidationError("Post id is required")
	}
	if likes == nil {
		likes = []string{}
	}

	doc, err := s.store.UpdateDocument(ctx, s.cfg.PostsCollectionID, postID, map[string]any{
		"likes": likes,
	})
	if err != nil {
		return nil, mapRemote(err, "Post not updated")
	}
	return docToPost(*doc), nil
}

// SavePost bookmarks a post for a user by creating the join document.
func (s *Service) SavePost(ctx context.Context, userID, postID string) (*models.SavedPost, error) {
	ctx, span := tracer().Start(ctx, "access.SavePost")
	defer span.End()

	if userID == "" || postID == "" {
		return nil, models.NewValidationError("User id and post id are required")
	}

	doc, err := s.store.CreateDocument(ctx, s.cfg.SavesCollectionID, uuid.NewString(), map[string]any{
		"user": userID,
		"post": postID,
	})
	if err != nil {
		return nil, mapRemote(err, "Post not saved")
	}
	return docToSavedPost(*doc), nil
}

// UnsavePost removes a bookmark by its join document ID.
func (s *Service) UnsavePost(ctx context.Context, savedID string) (*Status, error) {
	ctx, span := tracer().Start(ctx, "access.UnsavePost")
	defer span.End()

	if savedID == "" {
		return nil, models.NewValidationError("Saved post id is required")
	}
	if err := s.store.DeleteDocument(ctx, s.cfg.SavesCollectionID, savedID); err != nil {
		return nil, mapRemote(err, "Saved post not deleted")
	}
	return &Status{OK: true, Message: "Saved post deleted"}, nil
}
