// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"glimpse/internal/remote"
)

// StoreStub is a function-field test double for remote.Store. Unset fields
// fall back to benign defaults so tests only wire the calls they care about.
// Every call is recorded in order for interaction assertions.
type StoreStub struct {
	mu    sync.Mutex
	calls []string

	CreateAccountFn  func(ctx context.Context, id, email, password, name string) (*remote.Account, error)
	CreateSessionFn  func(ctx context.Context, email, password string) (*remote.Session, error)
	CurrentAccountFn func(ctx context.Context) (*remote.Account, error)
	DeleteSessionFn  func(ctx context.Context, sessionID string) error

	CreateDocumentFn func(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error)
	GetDocumentFn    func(ctx context.Context, collectionID, documentID string) (*remote.Document, error)
	ListDocumentsFn  func(ctx context.Context, collectionID string, queries ...remote.Query) ([]remote.Document, error)
	UpdateDocumentFn func(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error)
	DeleteDocumentFn func(ctx context.Context, collectionID, documentID string) error

	CreateFileFn     func(ctx context.Context, bucketID, fileID, name string, data []byte) (*remote.File, error)
	FilePreviewURLFn func(ctx context.Context, bucketID, fileID string, width, height int, gravity string, quality int) (string, error)
	DeleteFileFn     func(ctx context.Context, bucketID, fileID string) error

	InitialsURLFn func(name string) string
}

var _ remote.Store = (*StoreStub)(nil)

func (s *StoreStub) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

// Calls returns the ordered list of remote calls made so far.
func (s *StoreStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times the named call was made.
func (s *StoreStub) CallCount(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (s *StoreStub) CreateAccount(ctx context.Context, id, email, password, name string) (*remote.Account, error) {
	s.record("CreateAccount")
	if s.CreateAccountFn != nil {
		return s.CreateAccountFn(ctx, id, email, password, name)
	}
	return &remote.Account{ID: id, Email: email, Name: name}, nil
}

func (s *StoreStub) CreateSession(ctx context.Context, email, password string) (*remote.Session, error) {
	s.record("CreateSession")
	if s.CreateSessionFn != nil {
		return s.CreateSessionFn(ctx, email, password)
	}
	return &remote.Session{ID: "session-1", AccountID: "account-1", Secret: "secret", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *StoreStub) CurrentAccount(ctx context.Context) (*remote.Account, error) {
	s.record("CurrentAccount")
	if s.CurrentAccountFn != nil {
		return s.CurrentAccountFn(ctx)
	}
	return nil, nil
}

func (s *StoreStub) DeleteSession(ctx context.Context, sessionID string) error {
	s.record("DeleteSession")
	if s.DeleteSessionFn != nil {
		return s.DeleteSessionFn(ctx, sessionID)
	}
	return nil
}

func (s *StoreStub) CreateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	s.record("CreateDocument")
	if s.CreateDocumentFn != nil {
		return s.CreateDocumentFn(ctx, collectionID, documentID, fields)
	}
	now := time.Now()
	return &remote.Document{ID: documentID, CreatedAt: now, UpdatedAt: now, Fields: fields}, nil
}

func (s *StoreStub) GetDocument(ctx context.Context, collectionID, documentID string) (*remote.Document, error) {
	s.record("GetDocument")
	if s.GetDocumentFn != nil {
		return s.GetDocumentFn(ctx, collectionID, documentID)
	}
	return &remote.Document{ID: documentID, Fields: map[string]any{}}, nil
}

func (s *StoreStub) ListDocuments(ctx context.Context, collectionID string, queries ...remote.Query) ([]remote.Document, error) {
	s.record("ListDocuments")
	if s.ListDocumentsFn != nil {
		return s.ListDocumentsFn(ctx, collectionID, queries...)
	}
	return nil, nil
}

func (s *StoreStub) UpdateDocument(ctx context.Context, collectionID, documentID string, fields map[string]any) (*remote.Document, error) {
	s.record("UpdateDocument")
	if s.UpdateDocumentFn != nil {
		return s.UpdateDocumentFn(ctx, collectionID, documentID, fields)
	}
	now := time.Now()
	return &remote.Document{ID: documentID, CreatedAt: now, UpdatedAt: now, Fields: fields}, nil
}

func (s *StoreStub) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	s.record("DeleteDocument")
	if s.DeleteDocumentFn != nil {
		return s.DeleteDocumentFn(ctx, collectionID, documentID)
	}
	return nil
}

func (s *StoreStub) CreateFile(ctx context.Context, bucketID, fileID, name string, data []byte) (*remote.File, error) {
	s.record("CreateFile")
	if s.CreateFileFn != nil {
		return s.CreateFileFn(ctx, bucketID, fileID, name, data)
	}
	return &remote.File{ID: fileID, Name: name, Size: int64(len(data))}, nil
}

func (s *StoreStub) FilePreviewURL(ctx context.Context, bucketID, fileID string, width, height int, gravity string, quality int) (string, error) {
	s.record("FilePreviewURL")
	if s.FilePreviewURLFn != nil {
		return s.FilePreviewURLFn(ctx, bucketID, fileID, width, height, gravity, quality)
	}
	return "https://example.test/preview/" + fileID, nil
}

func (s *StoreStub) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	s.record("DeleteFile")
	if s.DeleteFileFn != nil {
		return s.DeleteFileFn(ctx, bucketID, fileID)
	}
	return nil
}

func (s *StoreStub) InitialsURL(name string) string {
	s.record("InitialsURL")
	if s.InitialsURLFn != nil {
		return s.InitialsURLFn(name)
	}
	return "https://example.test/avatars/initials?name=" + name
}

// TinyPNG renders a small solid-color PNG for upload fixtures.
func TinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
