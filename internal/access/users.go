package access

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/remote"
)

// UpdateUser is the profile update input. ImageURL/ImageID carry the user's
// existing avatar pair; File, when non-empty, replaces it.
type UpdateUser struct {
	UserID   string
	Name     string
	Bio      string
	ImageURL string
	ImageID  string
	File     *FileUpload
}

// UpdateUser updates a user document, optionally replacing the avatar with
// the same upload/rollback ordering as UpdatePost: a new file that cannot be
// attached is deleted, and the old avatar is deleted only after the update
// is confirmed and only if the user had an uploaded one.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUser) (*models.User, error) {
	ctx, span := tracer().Start(ctx, "access.UpdateUser")
	defer span.End()

	if in.UserID == "" {
		return nil, models.NewValidationError("User id is required")
	}

	hasNewFile := in.File != nil && len(in.File.Data) > 0
	imageURL, imageID := in.ImageURL, in.ImageID

	var (
		uploaded *remote.File
		doc      *remote.Document
	)

	sg := &saga{operation: "update_user"}
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
			updated, err := s.store.UpdateDocument(ctx, s.cfg.UsersCollectionID, in.UserID, map[string]any{
				"name":     in.Name,
				"bio":      in.Bio,
				"imageUrl": imageURL,
				"imageId":  imageID,
			})
			if err != nil {
				return mapRemote(err, "User not updated")
			}
			doc = updated
			return nil
		},
	})

	if err := sg.execute(ctx); err != nil {
		return nil, err
	}

	// Initials avatars have no ImageID, so there is nothing to delete unless
	// the user had an uploaded avatar before this update.
	if hasNewFile && in.ImageID != "" {
		if err := s.removeFile(ctx, in.ImageID); err != nil {
			observability.LogOrphanedBlob(ctx, "update_user", in.ImageID, err)
			observability.OrphanedBlobs.WithLabelValues("update_user").Inc()
		}
	}
	return docToUser(*doc), nil
}

// Users lists user documents, newest first, capped at limit when positive.
func (s *Service) Users(ctx context.Context, limit int) ([]models.User, error) {
	ctx, span := tracer().Start(ctx, "access.Users")
	defer span.End()

	queries := []remote.Query{remote.OrderDesc(remote.AttrCreatedAt)}
	if limit > 0 {
		queries = append(queries, remote.Limit(limit))
	}
	docs, err := s.store.ListDocuments(ctx, s.cfg.UsersCollectionID, queries...)
	if err != nil {
		return nil, mapRemote(err, "Users not found")
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *docToUser(d))
	}
	return users, nil
}

// UserByID fetches a single user document.
func (s *Service) UserByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, span := tracer().Start(ctx, "access.UserByID")
	defer span.End()

	if userID == "" {
		return nil, models.NewValidationError("User id is required")
	}
	doc, err := s.store.GetDocument(ctx, s.cfg.UsersCollectionID, userID)
	if err != nil {
		return nil, mapRemote(err, "User not found")
	}
	return docToUser(*doc), nil
}
