// Command syncindex rebuilds the search index from the post table.
// Run it on first deployment or whenever the index needs a full rebuild;
// steady-state drift is handled by the server's incremental sync loop.
package main

import (
	"context"
	"log"
	"time"

	"zephyr/internal/bootstrap"
	"zephyr/internal/config"
	"zephyr/internal/repository"
	"zephyr/internal/search"
	indexsync "zephyr/internal/sync"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	index, err := search.NewElasticIndex(cfg.ESAddressList(), cfg.ESIndex)
	if err != nil {
		log.Fatalf("Failed to connect to search index: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	projector := indexsync.NewProjector(index, postRepo)
	scheduler, err := indexsync.NewScheduler(
		postRepo, projector, cfg.SyncInterval(), cfg.SyncWindow(), cfg.SyncBatchSize)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	if err := scheduler.Bootstrap(ctx); err != nil {
		log.Fatalf("Bootstrap sync failed: %v", err)
	}
	log.Printf("Bootstrap sync completed in %s", time.Since(start).Round(time.Millisecond))
}
