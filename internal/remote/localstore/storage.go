package localstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"glimpse/internal/remote"

	"gorm.io/gorm"
)

// CreateFile stores a blob in the given bucket.
func (s *Store) CreateFile(ctx context.Context, bucketID, fileID, name string, data []byte) (*remote.File, error) {
	row := fileRow{ID: fileID, BucketID: bucketID, Name: name, Data: data}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: file %s", remote.ErrConflict, fileID)
		}
		return nil, err
	}
	return &remote.File{ID: row.ID, Name: row.Name, Size: int64(len(data))}, nil
}

// FilePreviewURL derives a synthetic rendition URL after verifying the blob
// exists.
func (s *Store) FilePreviewURL(ctx context.Context, bucketID, fileID string, width, height int, gravity string, quality int) (string, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&fileRow{}).
		Where("bucket_id = ? AND id = ?", bucketID, fileID).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", fmt.Errorf("%w: file %s", remote.ErrNotFound, fileID)
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("gravity", gravity)
	q.Set("quality", strconv.Itoa(quality))
	return fmt.Sprintf("local://storage/buckets/%s/files/%s/preview?%s", bucketID, url.PathEscape(fileID), q.Encode()), nil
}

// DeleteFile removes a blob from the given bucket.
func (s *Store) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	result := s.db.WithContext(ctx).Where("bucket_id = ? AND id = ?", bucketID, fileID).Delete(&fileRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: file %s", remote.ErrNotFound, fileID)
	}
	return nil
}
