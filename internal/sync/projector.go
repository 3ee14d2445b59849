// Package sync keeps the search index consistent with the primary store.
// The primary store is authoritative; the index is a projection that is
// allowed to lag and is repaired by replaying recently-updated rows.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	"zephyr/internal/middleware"
	"zephyr/internal/models"
	"zephyr/internal/observability"
	"zephyr/internal/repository"
	"zephyr/internal/search"
)

// Projector writes post rows into the search index and repairs index entries
// the primary store has dropped.
type Projector struct {
	index  search.Index
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewProjector creates a new projector
func NewProjector(index search.Index, posts repository.PostRepository) *Projector {
	return &Projector{
		index:  index,
		posts:  posts,
		logger: middleware.Logger.With("component", "projector"),
	}
}

// Project upserts a batch of rows into the index. Upserts are keyed by post
// ID, so replaying a batch converges to the same index state.
func (p *Projector) Project(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	docs := make([]search.Document, 0, len(posts))
	for _, post := range posts {
		docs = append(docs, search.DocumentFromPost(post))
	}

	if err := p.index.BulkUpsert(ctx, docs); err != nil {
		return fmt.Errorf("project %d posts: %w", len(posts), err)
	}
	observability.IndexDocumentsProjected.Add(float64(len(docs)))
	return nil
}

// ReconcileIDs repairs index entries for the given post IDs. Rows still in
// the primary store are re-projected, soft-deleted ones included so the index
// learns the deleted flag. Rows that are physically gone have their index
// documents removed.
func (p *Projector) ReconcileIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := p.posts.ListByIDs(ctx, ids, true)
	if err != nil {
		return fmt.Errorf("reconcile lookup: %w", err)
	}

	var live []*models.Post
	for _, id := range ids {
		post, ok := found[id]
		if ok {
			live = append(live, post)
			continue
		}
		if err := p.index.Delete(ctx, id); err != nil {
			return fmt.Errorf("reconcile delete %d: %w", id, err)
		}
		observability.IndexDocumentsReconciled.Inc()
		p.logger.InfoContext(ctx, "removed stale index document", "post_id", id)
	}

	return p.Project(ctx, live)
}
