package access

import (
	"context"
	"testing"

	"glimpse/internal/models"
	"glimpse/internal/remote"
	"glimpse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store remote.Store) *Service {
	return New(store, Config{
		UsersCollectionID: "users",
		PostsCollectionID: "posts",
		SavesCollectionID: "saves",
		StorageBucketID:   "media",
	})
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "travel", []string{"travel"}},
		{"spaced list", "Art, Expression, Learn", []string{"Art", "Expression", "Learn"}},
		{"trailing comma", "a,b,", []string{"a", "b"}},
		{"only spaces", "   ", []string{}},
		{"inner spaces", "new york, food", []string{"newyork", "food"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTags(tc.in))
		})
	}
}

func TestCreatePost(t *testing.T) {
	stub := &testutil.StoreStub{}
	svc := newTestService(stub)

	post, err := svc.CreatePost(context.Background(), NewPost{
		CreatorID: "user-1",
		Caption:   "first light",
		Location:  "Oslo",
		Tags:      "sunrise, morning",
		File:      FileUpload{Name: "shot.png", Data: testutil.TinyPNG(t, 4, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", post.CreatorID)
	assert.Equal(t, "first light", post.Caption)
	assert.Equal(t, []string{"sunrise", "morning"}, post.Tags)
	assert.Empty(t, post.Likes)
	assert.NotEmpty(t, post.ImageURL)
	assert.NotEmpty(t, post.ImageID)
	assert.Zero(t, stub.CallCount("DeleteFile"))
}

func TestCreatePostValidation(t *testing.T) {
	stub := &testutil.StoreStub{}
	svc := newTestService(stub)

	_, err := svc.CreatePost(context.Background(), NewPost{Caption: "no creator", File: FileUpload{Data: testutil.TinyPNG(t, 2, 2)}})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.CreatePost(context.Background(), NewPost{CreatorID: "user-1"})
	assertCode(t, err, models.CodeValidation)

	// Nothing reached the store.
	assert.Empty(t, stub.Calls())
}

func TestCreatePostPreviewFailureDeletesUploadOnce(t *testing.T) {
	var uploadedID string
	stub := &testutil.StoreStub{
		CreateFileFn: func(_ context.Context, _, fileID, name string, data []byte) (*remote.File, error) {
			uploadedID = fileID
			return &remote.File{ID: fileID, Name: name, Size: int64(len(data))}, nil
		},
		FilePreviewURLFn: func(context.Context, string, string, int, int, string, int) (string, error) {
			return "", remote.ErrUnavailable
		},
		DeleteFileFn: func(_ context.Context, _, fileID string) error {
			assert.Equal(t, uploadedID, fileID)
			return nil
		},
	}
	svc := newTestService(stub)

	_, err := svc.CreatePost(context.Background(), NewPost{
		CreatorID: "user-1",
		File:      FileUpload{Name: "shot.png", Data: testutil.TinyPNG(t, 4, 4)},
	})
	assertCode(t, err, models.CodePostCreation)
	assert.Equal(t, 1, stub.CallCount("DeleteFile"))
	assert.Zero(t, stub.CallCount("CreateDocument"))
}

func TestCreatePostDocumentFailureDeletesUploadOnce(t *testing.T) {
	stub := &testutil.StoreStub{
		CreateDocumentFn: func(context.Context, string, string, map[string]any) (*remote.Document, error) {
			return nil, remote.ErrUnavailable
		},
	}
	svc := newTestService(stub)

	_, err := svc.CreatePost(context.Background(), NewPost{
		CreatorID: "user-1",
		File:      FileUpload{Name: "shot.png", Data: testutil.TinyPNG(t, 4, 4)},
	})
	assertCode(t, err, models.CodePostCreation)
	assert.Equal(t, 1, stub.CallCount("DeleteFile"))
}

func TestUpdatePostFailureDeletesNewFileKeepsOld(t *testing.T) {
	var uploadedID string
	var deleted []string
	stub := &testutil.StoreStub{
		CreateFileFn: func(_ context.Context, _, fileID, name string, data []byte) (*remote.File, error) {
			uploadedID = fileID
			return &remote.File{ID: fileID, Name: name, Size: int64(len(data))}, nil
		},
		UpdateDocumentFn: func(context.Context, string, string, map[string]any) (*remote.Document, error) {
			return nil, remote.ErrUnavailable
		},
		DeleteFileFn: func(_ context.Context, _, fileID string) error {
			deleted = append(deleted, fileID)
			return nil
		},
	}
	svc := newTestService(stub)

	file := FileUpload{Name: "next.png", Data: testutil.TinyPNG(t, 4, 4)}
	_, err := svc.UpdatePost(context.Background(), UpdatePost{
		PostID:   "post-1",
		Caption:  "updated",
		ImageURL: "https://example.test/preview/old-file",
		ImageID:  "old-file",
		File:     &file,
	})
	assertCode(t, err, models.CodeRemote)

	// Only the just-uploaded blob is rolled back; the document still
	// references the old one.
	require.Equal(t, []string{uploadedID}, deleted)
	assert.NotContains(t, deleted, "old-file")
}

func TestUpdatePostSuccessDeletesOldFileKeepsNew(t *testing.T) {
	var deleted []string
	stub := &testutil.StoreStub{
		DeleteFileFn: func(_ context.Context, _, fileID string) error {
			deleted = append(deleted, fileID)
			return nil
		},
	}
	svc := newTestService(stub)

	file := FileUpload{Name: "next.png", Data: testutil.TinyPNG(t, 4, 4)}
	post, err := svc.UpdatePost(context.Background(), UpdatePost{
		PostID:   "post-1",
		Caption:  "updated",
		ImageURL: "https://example.test/preview/old-file",
		ImageID:  "old-file",
		File:     &file,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"old-file"}, deleted)
	assert.NotEqual(t, "old-file", post.ImageID)
}

func TestUpdatePostWithoutFileKeepsImagePair(t *testing.T) {
	stub := &testutil.StoreStub{}
	svc := newTestService(stub)

	post, err := svc.UpdatePost(context.Background(), UpdatePost{
		PostID:   "post-1",
		Caption:  "caption only",
		ImageURL: "https://example.test/preview/old-file",
		ImageID:  "old-file",
	})
	require.NoError(t, err)
	assert.Equal(t, "old-file", post.ImageID)
	assert.Zero(t, stub.CallCount("CreateFile"))
	assert.Zero(t, stub.CallCount("DeleteFile"))
}

func TestUpdatePostOldFileCleanupFailureStillSucceeds(t *testing.T) {
	stub := &testutil.StoreStub{
		DeleteFileFn: func(context.Context, string, string) error {
			return remote.ErrUnavailable
		},
	}
	svc := newTestService(stub)

	file := FileUpload{Name: "next.png", Data: testutil.TinyPNG(t, 4, 4)}
	post, err := svc.UpdatePost(context.Background(), UpdatePost{
		PostID:  "post-1",
		ImageID: "old-file",
		File:    &file,
	})
	require.NoError(t, err)
	assert.NotNil(t, post)
}

func TestDeletePostMissingIDIsNoOp(t *testing.T) {
	stub := &testutil.StoreStub{}
	svc := newTestService(stub)

	for _, pair := range [][2]string{{"", "image-1"}, {"post-1", ""}, {"", ""}} {
		status, err := svc.DeletePost(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, status.OK)
	}
	// No-op means no remote traffic at all.
	assert.Empty(t, stub.Calls())
}

func TestDeletePostBlobFailureIsPartial(t *testing.T) {
	stub := &testutil.StoreStub{
		DeleteFileFn: func(context.Context, string, string) error {
			return remote.ErrUnavailable
		},
	}
	svc := newTestService(stub)

	_, err := svc.DeletePost(context.Background(), "post-1", "image-1")
	assertCode(t, err, models.CodePartialFailure)
	assert.Equal(t, 1, stub.CallCount("DeleteDocument"))
}

func TestLikePostOverwritesLikerSet(t *testing.T) {
	var gotFields map[string]any
	stub := &testutil.StoreStub{
		UpdateDocumentFn: func(_ context.Context, _, documentID string, fields map[string]any) (*remote.Document, error) {
			gotFields = fields
			return &remote.Document{ID: documentID, Fields: fields}, nil
		},
	}
	svc := newTestService(stub)

	post, err := svc.LikePost(context.Background(), "post-1", []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, post.Likes)
	assert.Equal(t, map[string]any{"likes": []string{"u1", "u2"}}, gotFields)

	// A nil set clears likes rather than erroring.
	post, err = svc.LikePost(context.Background(), "post-1", nil)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)
}

func TestSaveAndUnsavePost(t *testing.T) {
	stub := &testutil.StoreStub{}
	svc := newTestService(stub)

	saved, err := svc.SavePost(context.Background(), "user-1", "post-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "post-1", saved.PostID)

	status, err := svc.UnsavePost(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.True(t, status.OK)

	_, err = svc.SavePost(context.Background(), "", "post-1")
	assertCode(t, err, models.CodeValidation)
	_, err = svc.UnsavePost(context.Background(), "")
	assertCode(t, err, models.CodeValidation)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
