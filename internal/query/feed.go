package query

import (
	"context"
	"sync"

	"glimpse/internal/access"
	"glimpse/internal/models"
)

// Feed accumulates feed pages into one ordered, deduplicated sequence. Each
// LoadMore fetches the page after the last one seen; the feed is exhausted
// once a page comes back shorter than the fixed page size.
type Feed struct {
	svc *access.Service

	mu        sync.Mutex
	posts     []models.Post
	seen      map[string]bool
	cursor    string
	exhausted bool
}

// NewFeed creates an empty feed over the given access layer.
func NewFeed(svc *access.Service) *Feed {
	return &Feed{svc: svc, seen: make(map[string]bool)}
}

// LoadMore fetches and appends the next page, returning just that page.
// Posts already accumulated are dropped from the result; the cursor still
// advances past them so progress is made even across overlapping pages.
func (f *Feed) LoadMore(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.exhausted {
		return nil, nil
	}

	page, err := f.svc.PostPage(ctx, f.cursor)
	if err != nil {
		return nil, err
	}

	if len(page) < access.FeedPageSize {
		f.exhausted = true
	}
	if len(page) > 0 {
		f.cursor = page[len(page)-1].ID
	}

	fresh := make([]models.Post, 0, len(page))
	for _, p := range page {
		if f.seen[p.ID] {
			continue
		}
		f.seen[p.ID] = true
		f.posts = append(f.posts, p)
		fresh = append(fresh, p)
	}
	return fresh, nil
}

// Posts returns a copy of everything accumulated so far.
func (f *Feed) Posts() []models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Exhausted reports whether the last page fell short of the page size.
func (f *Feed) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted
}
