package access

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/remote"
)

const (
	// FeedPageSize is the fixed page size of the infinite feed query.
	FeedPageSize = 9
	// recentPostsLimit caps the non-paginated recent posts query.
	recentPostsLimit = 20
)

func docsToPosts(docs []remote.Document) []models.Post {
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, *docToPost(d))
	}
	return posts
}

// SearchPosts finds posts whose caption contains the search term.
func (s *Service) SearchPosts(ctx context.Context, term string) ([]models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.SearchPosts")
	defer span.End()

	if term == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	docs, err := s.store.ListDocuments(ctx, s.cfg.PostsCollectionID,
		remote.Search("caption", term),
	)
	if err != nil {
		return nil, mapRemote(err, "Posts not found")
	}
	return docsToPosts(docs), nil
}

// PostPage fetches one feed page: posts in descending update-time order,
// FeedPageSize at a time. An empty cursor means the first page; otherwise
// the page starts after the document with the cursor ID.
func (s *Service) PostPage(ctx context.Context, cursor string) ([]models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.PostPage")
	defer span.End()

	queries := []remote.Query{
		remote.OrderDesc(remote.AttrUpdatedAt),
		remote.Limit(FeedPageSize),
	}
	if cursor != "" {
		queries = append(queries, remote.CursorAfter(cursor))
	}
	docs, err := s.store.ListDocuments(ctx, s.cfg.PostsCollectionID, queries...)
	if err != nil {
		return nil, mapRemote(err, "Posts not found")
	}
	return docsToPosts(docs), nil
}

// RecentPosts fetches the newest posts by creation time.
func (s *Service) RecentPosts(ctx context.Context) ([]models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.RecentPosts")
	defer span.End()

	docs, err := s.store.ListDocuments(ctx, s.cfg.PostsCollectionID,
		remote.OrderDesc(remote.AttrCreatedAt),
		remote.Limit(recentPostsLimit),
	)
	if err != nil {
		return nil, mapRemote(err, "Posts not found")
	}
	return docsToPosts(docs), nil
}

// PostByID fetches a single post document with its creator snapshot
// attached. The snapshot is best effort: a post whose creator document is
// missing still renders.
func (s *Service) PostByID(ctx context.Context, postID string) (*models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.PostByID")
	defer span.End()

	if postID == "" {
		return nil, models.NewValidationError("Post id is required")
	}
	doc, err := s.store.GetDocument(ctx, s.cfg.PostsCollectionID, postID)
	if err != nil {
		return nil, mapRemote(err, "Post not found")
	}

	post := docToPost(*doc)
	if post.CreatorID != "" {
		if creator, err := s.store.GetDocument(ctx, s.cfg.UsersCollectionID, post.CreatorID); err == nil {
			post.Creator = docToUser(*creator)
		}
	}
	return post, nil
}

// UserPosts lists a creator's posts, newest first. An empty creator ID is a
// no-op returning nothing.
func (s *Service) UserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	ctx, span := tracer().Start(ctx, "access.UserPosts")
	defer span.End()

	if userID == "" {
		return nil, nil
	}
	docs, err := s.store.ListDocuments(ctx, s.cfg.PostsCollectionID,
		remote.Equal("creator", userID),
		remote.OrderDesc(remote.AttrCreatedAt),
	)
	if err != nil {
		return nil, mapRemote(err, "Posts not found")
	}
	return docsToPosts(docs), nil
}
