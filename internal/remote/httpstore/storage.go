package httpstore

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"glimpse/internal/observability"
	"glimpse/internal/remote"
)

type filePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"sizeBytes"`
}

func (c *Client) bucketPath(bucketID string) string {
	return "/v1/storage/buckets/" + url.PathEscape(bucketID) + "/files"
}

// CreateFile uploads a blob to the given bucket.
func (c *Client) CreateFile(ctx context.Context, bucketID, fileID, name string, data []byte) (*remote.File, error) {
	defer observability.TrackRemoteCall("storage", "createFile")()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("fileId", fileID); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var out filePayload
	err = c.do(ctx, http.MethodPost, c.bucketPath(bucketID), nil, &body, writer.FormDataContentType(), &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("storage", "createFile").Inc()
		c.blobLog.LogError(ctx, "createFile", err)
		return nil, err
	}
	return &remote.File{ID: out.ID, Name: out.Name, Size: out.Size}, nil
}

// FilePreviewURL derives a rendition URL for a stored blob. The rendition is
// generated service-side on first access; this call only constructs the URL.
func (c *Client) FilePreviewURL(_ context.Context, bucketID, fileID string, width, height int, gravity string, quality int) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("%w: file id is empty", remote.ErrNotFound)
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("gravity", gravity)
	q.Set("quality", strconv.Itoa(quality))
	q.Set("project", c.cfg.ProjectID)
	return c.cfg.Endpoint + c.bucketPath(bucketID) + "/" + url.PathEscape(fileID) + "/preview?" + q.Encode(), nil
}

// DeleteFile deletes a blob from the given bucket.
func (c *Client) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	defer observability.TrackRemoteCall("storage", "deleteFile")()

	err := c.doJSON(ctx, http.MethodDelete, c.bucketPath(bucketID)+"/"+url.PathEscape(fileID), nil, nil, nil)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("storage", "deleteFile").Inc()
		c.blobLog.LogError(ctx, "deleteFile", err)
		return err
	}
	return nil
}
