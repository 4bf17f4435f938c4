package access

import (
	"bytes"
	"context"
	"image"

	"glimpse/internal/models"
	"glimpse/internal/remote"

	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Preview renditions are fixed: 2000x2000, cropped from the top, full quality.
const (
	previewWidth   = 2000
	previewHeight  = 2000
	previewGravity = "top"
	previewQuality = 100
)

// FileUpload is the raw content of a file selected by the caller.
type FileUpload struct {
	Name string
	Data []byte
}

// UploadFile stores a blob under a fresh unique ID. The payload must decode
// as an image; the remote bucket accepts anything, so the check happens here
// before bytes leave the process.
func (s *Service) UploadFile(ctx context.Context, file FileUpload) (*remote.File, error) {
	if len(file.Data) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(file.Data)); err != nil {
		return nil, models.NewValidationError("Unsupported image type")
	}

	uploaded, err := s.store.CreateFile(ctx, s.cfg.StorageBucketID, uuid.NewString(), file.Name, file.Data)
	if err != nil {
		return nil, mapRemote(err, "File not uploaded")
	}
	return uploaded, nil
}

// FilePreviewURL derives the fixed preview rendition URL for a stored blob.
func (s *Service) FilePreviewURL(ctx context.Context, fileID string) (string, error) {
	url, err := s.store.FilePreviewURL(ctx, s.cfg.StorageBucketID, fileID, previewWidth, previewHeight, previewGravity, previewQuality)
	if err != nil {
		return "", mapRemote(err, "File preview URL not found")
	}
	return url, nil
}

// DeleteFile removes a blob, reporting the outcome as a status value. From
// the caller's perspective the operation never throws.
func (s *Service) DeleteFile(ctx context.Context, fileID string) Status {
	if err := s.removeFile(ctx, fileID); err != nil {
		return Status{OK: false, Message: err.Error()}
	}
	return Status{OK: true, Message: "File deleted"}
}

func (s *Service) removeFile(ctx context.Context, fileID string) error {
	if err := s.store.DeleteFile(ctx, s.cfg.StorageBucketID, fileID); err != nil {
		return mapRemote(err, "File not deleted")
	}
	return nil
}
