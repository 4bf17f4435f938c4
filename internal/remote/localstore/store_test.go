package localstore

import (
	"context"
	"fmt"
	"testing"

	"glimpse/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	return store
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)
}

func TestAccountLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, "acc-1", "ada@example.test", "hunter22", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)

	// Duplicate email is a conflict.
	_, err = store.CreateAccount(ctx, "acc-2", "ada@example.test", "pw", "Imposter")
	require.ErrorIs(t, err, remote.ErrConflict)

	// No session yet.
	current, err := store.CurrentAccount(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	// Wrong password.
	_, err = store.CreateSession(ctx, "ada@example.test", "wrong")
	require.ErrorIs(t, err, remote.ErrUnauthorized)

	// Unknown email looks the same as a wrong password.
	_, err = store.CreateSession(ctx, "nobody@example.test", "hunter22")
	require.ErrorIs(t, err, remote.ErrUnauthorized)

	session, err := store.CreateSession(ctx, "ada@example.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", session.AccountID)
	assert.NotEmpty(t, session.Secret)

	current, err = store.CurrentAccount(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "acc-1", current.ID)

	require.NoError(t, store.DeleteSession(ctx, "current"))

	current, err = store.CurrentAccount(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	// Signing out twice fails.
	err = store.DeleteSession(ctx, "current")
	require.ErrorIs(t, err, remote.ErrUnauthorized)
}

func TestDocumentCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, err := store.CreateDocument(ctx, "posts", "post-1", map[string]any{
		"caption": "hello",
		"tags":    []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "post-1", doc.ID)
	assert.Equal(t, "hello", doc.Fields["caption"])

	got, err := store.GetDocument(ctx, "posts", "post-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Fields["caption"])

	// Updates merge, untouched fields survive.
	updated, err := store.UpdateDocument(ctx, "posts", "post-1", map[string]any{"caption": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Fields["caption"])
	assert.NotNil(t, updated.Fields["tags"])

	// Collections are isolated.
	_, err = store.GetDocument(ctx, "users", "post-1")
	require.ErrorIs(t, err, remote.ErrNotFound)

	require.NoError(t, store.DeleteDocument(ctx, "posts", "post-1"))
	err = store.DeleteDocument(ctx, "posts", "post-1")
	require.ErrorIs(t, err, remote.ErrNotFound)

	_, err = store.GetDocument(ctx, "posts", "post-1")
	require.ErrorIs(t, err, remote.ErrNotFound)

	_, err = store.UpdateDocument(ctx, "posts", "post-1", map[string]any{"caption": "gone"})
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func seedDocs(t *testing.T, store *Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := store.CreateDocument(ctx, "posts", fmt.Sprintf("post-%02d", i), map[string]any{
			"caption": fmt.Sprintf("caption %d", i),
			"creator": fmt.Sprintf("user-%d", i%2),
			"rank":    i,
		})
		require.NoError(t, err)
	}
}

func TestListDocumentsEqual(t *testing.T) {
	store := newTestStore(t)
	seedDocs(t, store, 6)

	docs, err := store.ListDocuments(context.Background(), "posts", remote.Equal("creator", "user-0"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for _, d := range docs {
		assert.Equal(t, "user-0", d.Fields["creator"])
	}
}

func TestListDocumentsSearch(t *testing.T) {
	store := newTestStore(t)
	seedDocs(t, store, 12)

	docs, err := store.ListDocuments(context.Background(), "posts", remote.Search("caption", "CAPTION 1"))
	require.NoError(t, err)
	// Case-insensitive substring match: "caption 1", "caption 10", "caption 11".
	assert.Len(t, docs, 3)
}

func TestListDocumentsOrderLimitCursor(t *testing.T) {
	store := newTestStore(t)
	seedDocs(t, store, 10)
	ctx := context.Background()

	docs, err := store.ListDocuments(ctx, "posts",
		remote.OrderDesc("rank"),
		remote.Limit(3),
	)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "post-09", docs[0].ID)
	assert.Equal(t, "post-07", docs[2].ID)

	// Next page starts after the last seen document.
	docs, err = store.ListDocuments(ctx, "posts",
		remote.OrderDesc("rank"),
		remote.Limit(3),
		remote.CursorAfter("post-07"),
	)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "post-06", docs[0].ID)

	// A cursor pointing at a deleted document yields an empty page.
	docs, err = store.ListDocuments(ctx, "posts", remote.CursorAfter("missing"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	file, err := store.CreateFile(ctx, "media", "file-1", "shot.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), file.Size)

	url, err := store.FilePreviewURL(ctx, "media", "file-1", 2000, 2000, "top", 100)
	require.NoError(t, err)
	assert.Contains(t, url, "file-1")
	assert.Contains(t, url, "width=2000")
	assert.Contains(t, url, "gravity=top")

	_, err = store.FilePreviewURL(ctx, "media", "missing", 2000, 2000, "top", 100)
	require.ErrorIs(t, err, remote.ErrNotFound)

	require.NoError(t, store.DeleteFile(ctx, "media", "file-1"))
	err = store.DeleteFile(ctx, "media", "file-1")
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func TestInitialsURL(t *testing.T) {
	store := newTestStore(t)
	url := store.InitialsURL("Ada Lovelace")
	assert.Contains(t, url, "initials")
	assert.Contains(t, url, "Ada+Lovelace")
}
