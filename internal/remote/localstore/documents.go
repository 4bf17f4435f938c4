package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"glimpse/internal/remote"

	"gorm.io/gorm"
)

func rowToDocument(row documentRow) (remote.Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(row.Fields, &fields); err != nil {
		return remote.Document{}, fmt.Errorf("corrupt document %s: %w", row.ID, err)
	}
	return remote.Document{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Fields:    fields,
	}, nil
}

// CreateDocument stores a document with the given ID and fields.
func (s *Store) CreateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	row := documentRow{ID: documentID, CollectionID: collectionID, Fields: encoded}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: document %s", remote.ErrConflict, documentID)
		}
		return nil, err
	}
	doc, err := rowToDocument(row)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocument fetches a document by ID within a collection.
func (s *Store) GetDocument(ctx context.Context, collectionID, documentID string) (*remote.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection_id = ? AND id = ?", collectionID, documentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", remote.ErrNotFound, documentID)
		}
		return nil, err
	}
	doc, err := rowToDocument(row)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments applies the query terms in memory over the collection.
// Documents are schemaless JSON so filters cannot be pushed into SQL; the
// local store trades efficiency for fidelity to the hosted query surface.
func (s *Store) ListDocuments(ctx context.Context, collectionID string, queries ...remote.Query) ([]remote.Document, error) {
	var rows []documentRow
	if err := s.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]remote.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowToDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	var (
		orderAttr string
		limit     = -1
		cursor    string
	)
	for _, q := range queries {
		switch q.Kind {
		case remote.QueryEqual:
			docs = filterDocs(docs, func(d remote.Document) bool {
				return stringify(fieldValue(d, q.Attribute)) == stringify(q.Value)
			})
		case remote.QuerySearch:
			term := strings.ToLower(stringify(q.Value))
			docs = filterDocs(docs, func(d remote.Document) bool {
				return strings.Contains(strings.ToLower(stringify(fieldValue(d, q.Attribute))), term)
			})
		case remote.QueryOrderDesc:
			orderAttr = q.Attribute
		case remote.QueryLimit:
			limit = q.Limit
		case remote.QueryCursorAfter:
			cursor = q.Cursor
		default:
			return nil, fmt.Errorf("unsupported query kind %q", q.Kind)
		}
	}

	if orderAttr != "" {
		sortDocsDesc(docs, orderAttr)
	}
	if cursor != "" {
		docs = afterCursor(docs, cursor)
	}
	if limit >= 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// UpdateDocument merges the given fields into an existing document.
func (s *Store) UpdateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection_id = ? AND id = ?", collectionID, documentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", remote.ErrNotFound, documentID)
		}
		return nil, err
	}

	var merged map[string]any
	if err := json.Unmarshal(row.Fields, &merged); err != nil {
		return nil, fmt.Errorf("corrupt document %s: %w", row.ID, err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	row.Fields = encoded
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}
	doc, err := rowToDocument(row)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document by ID.
func (s *Store) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	result := s.db.WithContext(ctx).Where("collection_id = ? AND id = ?", collectionID, documentID).Delete(&documentRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: document %s", remote.ErrNotFound, documentID)
	}
	return nil
}

func fieldValue(d remote.Document, attribute string) any {
	switch attribute {
	case remote.AttrCreatedAt:
		return d.CreatedAt
	case remote.AttrUpdatedAt:
		return d.UpdatedAt
	default:
		return d.Fields[attribute]
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func filterDocs(docs []remote.Document, keep func(remote.Document) bool) []remote.Document {
	out := docs[:0]
	for _, d := range docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func sortDocsDesc(docs []remote.Document, attribute string) {
	sort.SliceStable(docs, func(i, j int) bool {
		return lessValue(fieldValue(docs[j], attribute), fieldValue(docs[i], attribute))
	})
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return stringify(a) < stringify(b)
}

func afterCursor(docs []remote.Document, cursor string) []remote.Document {
	for i, d := range docs {
		if d.ID == cursor {
			return docs[i+1:]
		}
	}
	return nil
}
