package access

import (
	"context"
	"testing"

	"glimpse/internal/remote"
	"glimpse/internal/remote/localstore"
	"glimpse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenDocsStore runs against a real local store but fails every document
// create, exercising the rollback path end to end.
type brokenDocsStore struct {
	*localstore.Store
	uploadedIDs []string
}

func (s *brokenDocsStore) CreateFile(ctx context.Context, bucketID, fileID, name string, data []byte) (*remote.File, error) {
	s.uploadedIDs = append(s.uploadedIDs, fileID)
	return s.Store.CreateFile(ctx, bucketID, fileID, name, data)
}

func (s *brokenDocsStore) CreateDocument(context.Context, string, string, map[string]any) (*remote.Document, error) {
	return nil, remote.ErrUnavailable
}

func TestCreatePostRollbackLeavesNoResources(t *testing.T) {
	inner, err := localstore.Open("sqlite", ":memory:")
	require.NoError(t, err)
	store := &brokenDocsStore{Store: inner}
	svc := newTestService(store)
	ctx := context.Background()

	_, err = svc.CreatePost(ctx, NewPost{
		CreatorID: "user-1",
		Caption:   "doomed",
		File:      FileUpload{Name: "shot.png", Data: testutil.TinyPNG(t, 4, 4)},
	})
	require.Error(t, err)

	// No post document was created.
	docs, err := inner.ListDocuments(ctx, "posts")
	require.NoError(t, err)
	assert.Empty(t, docs)

	// The uploaded blob was compensated away.
	require.Len(t, store.uploadedIDs, 1)
	err = inner.DeleteFile(ctx, "media", store.uploadedIDs[0])
	require.ErrorIs(t, err, remote.ErrNotFound, "blob should already be gone")
}

func TestCreatePostEndToEndAgainstLocalStore(t *testing.T) {
	store, err := localstore.Open("sqlite", ":memory:")
	require.NoError(t, err)
	svc := newTestService(store)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, NewAccount{
		Name: "Ada Lovelace", Username: "ada", Email: "ada@example.test", Password: "hunter22",
	})
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, NewPost{
		CreatorID: user.ID,
		Caption:   "first light",
		Tags:      "sunrise",
		File:      FileUpload{Name: "shot.png", Data: testutil.TinyPNG(t, 4, 4)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ImageURL)

	got, err := svc.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "first light", got.Caption)
	require.NotNil(t, got.Creator)
	assert.Equal(t, "ada", got.Creator.Username)

	status, err := svc.DeletePost(ctx, post.ID, post.ImageID)
	require.NoError(t, err)
	assert.True(t, status.OK)

	_, err = svc.PostByID(ctx, post.ID)
	require.Error(t, err)
}