package starsync

import (
	"context"
	"fmt"

	"github.com/stahnma/gh-pinstars/internal/github"
	"github.com/stahnma/gh-pinstars/internal/pinboard"
)

// RecentLister is the part of the bookmark store the resolver queries.
type RecentLister interface {
	Recent(ctx context.Context, tag string, count int) ([]pinboard.Post, error)
}

// Cursor is where a run resumes. An empty Target means nothing has been
// imported yet.
type Cursor struct {
	Target    string
	Direction github.Direction
}

// FirstRun reports whether no previous import bounds this run.
func (c Cursor) FirstRun() bool {
	return c.Target == ""
}

// CursorResolver derives the Cursor from the most recent marker-tagged
// bookmark.
type CursorResolver struct {
	store RecentLister
	tag   string
}

// NewCursorResolver creates a resolver that looks for bookmarks tagged tag.
func NewCursorResolver(store RecentLister, tag string) *CursorResolver {
	return &CursorResolver{store: store, tag: tag}
}

// Resolve queries the store once. With no tagged bookmark the listing is
// walked oldest first so the last bookmark created ends up being the newest
// star; otherwise it is walked newest first down to the bookmarked repo.
func (r *CursorResolver) Resolve(ctx context.Context) (Cursor, error) {
	posts, err := r.store.Recent(ctx, r.tag, 1)
	if err != nil {
		return Cursor{}, fmt.Errorf("getting most recent %q bookmark: %w", r.tag, err)
	}
	if len(posts) == 0 {
		return Cursor{Direction: github.Ascending}, nil
	}
	return Cursor{Target: posts[0].Description, Direction: github.Descending}, nil
}
