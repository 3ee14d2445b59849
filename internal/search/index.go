package search

import (
	"context"

	"zephyr/internal/models"
)

// Hit is a single index match: the post ID and its relevance score.
type Hit struct {
	ID    int64
	Score float64
}

// Result is one page of index hits plus the total match count.
type Result struct {
	Hits  []Hit
	Total int64
}

// Index abstracts the search backend. Writes are idempotent upserts keyed by
// post ID so sync jobs can safely replay.
type Index interface {
	Upsert(ctx context.Context, doc Document) error
	BulkUpsert(ctx context.Context, docs []Document) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q models.PostQuery) (Result, error)
}
