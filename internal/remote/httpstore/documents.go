package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"glimpse/internal/observability"
	"glimpse/internal/remote"
)

type documentPayload struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Data      map[string]any `json:"data"`
}

type documentListPayload struct {
	Total     int               `json:"total"`
	Documents []documentPayload `json:"documents"`
}

func (p documentPayload) toDocument() remote.Document {
	return remote.Document{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Fields:    p.Data,
	}
}

func (c *Client) collectionPath(collectionID string) string {
	return fmt.Sprintf("/v1/databases/%s/collections/%s/documents",
		url.PathEscape(c.cfg.DatabaseID), url.PathEscape(collectionID))
}

// CreateDocument creates a document with the given ID and fields.
func (c *Client) CreateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	defer observability.TrackRemoteCall("documents", "create")()

	var out documentPayload
	err := c.doJSON(ctx, http.MethodPost, c.collectionPath(collectionID), nil, map[string]any{
		"documentId": documentID,
		"data":       fields,
	}, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("documents", "create").Inc()
		c.docLog.LogError(ctx, "create", err)
		return nil, err
	}
	doc := out.toDocument()
	return &doc, nil
}

// GetDocument fetches a single document by ID.
func (c *Client) GetDocument(ctx context.Context, collectionID, documentID string) (*remote.Document, error) {
	defer observability.TrackRemoteCall("documents", "get")()

	var out documentPayload
	err := c.doJSON(ctx, http.MethodGet, c.collectionPath(collectionID)+"/"+url.PathEscape(documentID), nil, nil, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("documents", "get").Inc()
		c.docLog.LogError(ctx, "get", err)
		return nil, err
	}
	doc := out.toDocument()
	return &doc, nil
}

// ListDocuments lists documents matching the given query terms.
func (c *Client) ListDocuments(ctx context.Context, collectionID string, queries ...remote.Query) ([]remote.Document, error) {
	defer observability.TrackRemoteCall("documents", "list")()

	values := url.Values{}
	for _, q := range queries {
		encoded, err := json.Marshal(q)
		if err != nil {
			return nil, err
		}
		values.Add("queries[]", string(encoded))
	}

	var out documentListPayload
	err := c.doJSON(ctx, http.MethodGet, c.collectionPath(collectionID), values, nil, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("documents", "list").Inc()
		c.docLog.LogError(ctx, "list", err)
		return nil, err
	}
	docs := make([]remote.Document, 0, len(out.Documents))
	for _, p := range out.Documents {
		docs = append(docs, p.toDocument())
	}
	return docs, nil
}

// UpdateDocument applies a partial field update to a document.
func (c *Client) UpdateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	defer observability.TrackRemoteCall("documents", "update")()

	var out documentPayload
	err := c.doJSON(ctx, http.MethodPatch, c.collectionPath(collectionID)+"/"+url.PathEscape(documentID), nil, map[string]any{
		"data": fields,
	}, &out)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("documents", "update").Inc()
		c.docLog.LogError(ctx, "update", err)
		return nil, err
	}
	doc := out.toDocument()
	return &doc, nil
}

// DeleteDocument deletes a document by ID.
func (c *Client) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	defer observability.TrackRemoteCall("documents", "delete")()

	err := c.doJSON(ctx, http.MethodDelete, c.collectionPath(collectionID)+"/"+url.PathEscape(documentID), nil, nil, nil)
	if err != nil {
		observability.RemoteCallErrors.WithLabelValues("documents", "delete").Inc()
		c.docLog.LogError(ctx, "delete", err)
		return err
	}
	return nil
}
