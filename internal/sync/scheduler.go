package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zephyr/internal/middleware"
	"zephyr/internal/models"
	"zephyr/internal/observability"
	"zephyr/internal/repository"

	"github.com/google/uuid"
)

// Scheduler drives the two index sync modes: a one-shot bootstrap that walks
// the whole table, and a periodic incremental pass that replays every row
// updated inside a trailing window.
//
// The window is deliberately wider than the tick interval, so consecutive
// passes overlap and a pass that fails or skips a batch is re-covered by the
// next one. Combined with idempotent upserts this yields at-least-once
// delivery into the index.
type Scheduler struct {
	posts     repository.PostRepository
	projector *Projector
	interval  time.Duration
	window    time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewScheduler creates a scheduler. The window must be strictly wider than
// the interval or failed passes would leave permanent gaps.
func NewScheduler(posts repository.PostRepository, projector *Projector, interval, window time.Duration, batchSize int) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	if window <= interval {
		return nil, fmt.Errorf("sync window (%s) must be wider than the interval (%s)", window, interval)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("sync batch size must be positive, got %d", batchSize)
	}
	return &Scheduler{
		posts:     posts,
		projector: projector,
		interval:  interval,
		window:    window,
		batchSize: batchSize,
		logger:    middleware.Logger.With("component", "scheduler"),
	}, nil
}

// Bootstrap projects the entire post table into the index in batches.
// Intended for first deployment or index rebuilds.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID, "mode", "bootstrap")
	logger.InfoContext(ctx, "bootstrap sync started")

	total := 0
	for offset := 0; ; offset += s.batchSize {
		posts, err := s.posts.ListAll(ctx, s.batchSize, offset)
		if err != nil {
			observability.IndexSyncRuns.WithLabelValues("bootstrap", "error").Inc()
			return fmt.Errorf("bootstrap list at offset %d: %w", offset, err)
		}
		if len(posts) == 0 {
			break
		}

		if err := s.projector.Project(ctx, posts); err != nil {
			observability.IndexSyncRuns.WithLabelValues("bootstrap", "error").Inc()
			return fmt.Errorf("bootstrap batch at offset %d: %w", offset, err)
		}
		total += len(posts)

		if len(posts) < s.batchSize {
			break
		}
	}

	observability.IndexSyncRuns.WithLabelValues("bootstrap", "success").Inc()
	logger.InfoContext(ctx, "bootstrap sync finished", "documents", total)
	return nil
}

// Run ticks until the context is cancelled. Each tick runs as its own
// goroutine so a slow pass never delays the schedule; overlap is safe because
// projection is idempotent.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("incremental sync started",
		"interval", s.interval.String(), "window", s.window.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("incremental sync stopped")
			return
		case <-ticker.C:
			go s.syncOnce(ctx)
		}
	}
}

// syncOnce replays every row updated inside the trailing window. A failing
// batch is logged and skipped; the window overlap picks it up next pass.
func (s *Scheduler) syncOnce(ctx context.Context) {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID, "mode", "incremental")

	since := time.Now().Add(-s.window)
	posts, err := s.posts.ListUpdatedSince(ctx, since)
	if err != nil {
		observability.IndexSyncRuns.WithLabelValues("incremental", "error").Inc()
		logger.ErrorContext(ctx, "incremental sync query failed", "error", err.Error())
		return
	}
	if len(posts) == 0 {
		observability.IndexSyncRuns.WithLabelValues("incremental", "success").Inc()
		return
	}

	failed := 0
	for _, batch := range chunkPosts(posts, s.batchSize) {
		if err := s.projector.Project(ctx, batch); err != nil {
			failed++
			logger.ErrorContext(ctx, "incremental sync batch failed",
				"batch_size", len(batch), "error", err.Error())
		}
	}

	status := "success"
	if failed > 0 {
		status = "partial"
	}
	observability.IndexSyncRuns.WithLabelValues("incremental", status).Inc()
	logger.InfoContext(ctx, "incremental sync finished",
		"documents", len(posts), "failed_batches", failed)
}

func chunkPosts(posts []*models.Post, size int) [][]*models.Post {
	var chunks [][]*models.Post
	for start := 0; start < len(posts); start += size {
		end := start + size
		if end > len(posts) {
			end = len(posts)
		}
		chunks = append(chunks, posts[start:end])
	}
	return chunks
}
