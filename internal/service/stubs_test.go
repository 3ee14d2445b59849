package service

import (
	"context"
	"testing"
	"time"

	"zephyr/internal/models"
	"zephyr/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, int64) (*models.Post, error)
	updateFn           func(context.Context, *models.Post) error
	softDeleteFn       func(context.Context, int64) error
	listFn             func(context.Context, models.PostQuery) ([]*models.Post, int64, error)
	listByIDsFn        func(context.Context, []int64, bool) (map[int64]*models.Post, error)
	listAllFn          func(context.Context, int, int) ([]*models.Post, error)
	listUpdatedSinceFn func(context.Context, time.Time) ([]*models.Post, error)
	incrementFn        func(context.Context, models.EngagementKind, int64) (bool, error)
	decrementFn        func(context.Context, models.EngagementKind, int64) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id int64) error {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, q models.PostQuery) ([]*models.Post, int64, error) {
	return s.listFn(ctx, q)
}
func (s *postRepoStub) ListByIDs(ctx context.Context, ids []int64, includeDeleted bool) (map[int64]*models.Post, error) {
	return s.listByIDsFn(ctx, ids, includeDeleted)
}
func (s *postRepoStub) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *postRepoStub) ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	return s.listUpdatedSinceFn(ctx, since)
}
func (s *postRepoStub) IncrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error) {
	return s.incrementFn(ctx, kind, postID)
}
func (s *postRepoStub) DecrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error) {
	return s.decrementFn(ctx, kind, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:    func(_ context.Context, id int64) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:     func(_ context.Context, _ *models.Post) error { return nil },
		softDeleteFn: func(_ context.Context, _ int64) error { return nil },
		listFn: func(_ context.Context, _ models.PostQuery) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByIDsFn: func(_ context.Context, _ []int64, _ bool) (map[int64]*models.Post, error) {
			return map[int64]*models.Post{}, nil
		},
		listAllFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listUpdatedSinceFn: func(_ context.Context, _ time.Time) ([]*models.Post, error) {
			return nil, nil
		},
		incrementFn: func(_ context.Context, _ models.EngagementKind, _ int64) (bool, error) { return true, nil },
		decrementFn: func(_ context.Context, _ models.EngagementKind, _ int64) (bool, error) { return true, nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	existsFn             func(context.Context, models.EngagementKind, int64, int64) (bool, error)
	insertFn             func(context.Context, models.EngagementKind, int64, int64) error
	deleteFn             func(context.Context, models.EngagementKind, int64, int64) (bool, error)
	listPostIDsFn        func(context.Context, models.EngagementKind, int64, int, int) ([]int64, int64, error)
	listByUserAndPostsFn func(context.Context, models.EngagementKind, int64, []int64) ([]int64, error)
}

func (s *engagementRepoStub) Exists(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error) {
	return s.existsFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) Insert(ctx context.Context, kind models.EngagementKind, postID, userID int64) error {
	return s.insertFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) Delete(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error) {
	return s.deleteFn(ctx, kind, postID, userID)
}
func (s *engagementRepoStub) ListPostIDs(ctx context.Context, kind models.EngagementKind, userID int64, limit, offset int) ([]int64, int64, error) {
	return s.listPostIDsFn(ctx, kind, userID, limit, offset)
}
func (s *engagementRepoStub) ListByUserAndPosts(ctx context.Context, kind models.EngagementKind, userID int64, postIDs []int64) ([]int64, error) {
	return s.listByUserAndPostsFn(ctx, kind, userID, postIDs)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		existsFn: func(_ context.Context, _ models.EngagementKind, _, _ int64) (bool, error) {
			return false, nil
		},
		insertFn: func(_ context.Context, _ models.EngagementKind, _, _ int64) error { return nil },
		deleteFn: func(_ context.Context, _ models.EngagementKind, _, _ int64) (bool, error) {
			return true, nil
		},
		listPostIDsFn: func(_ context.Context, _ models.EngagementKind, _ int64, _, _ int) ([]int64, int64, error) {
			return nil, 0, nil
		},
		listByUserAndPostsFn: func(_ context.Context, _ models.EngagementKind, _ int64, _ []int64) ([]int64, error) {
			return nil, nil
		},
	}
}

// indexStub is a stub for search.Index.
type indexStub struct {
	upsertFn     func(context.Context, search.Document) error
	bulkUpsertFn func(context.Context, []search.Document) error
	deleteFn     func(context.Context, int64) error
	searchFn     func(context.Context, models.PostQuery) (search.Result, error)
}

func (s *indexStub) Upsert(ctx context.Context, doc search.Document) error {
	return s.upsertFn(ctx, doc)
}
func (s *indexStub) BulkUpsert(ctx context.Context, docs []search.Document) error {
	return s.bulkUpsertFn(ctx, docs)
}
func (s *indexStub) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}
func (s *indexStub) Search(ctx context.Context, q models.PostQuery) (search.Result, error) {
	return s.searchFn(ctx, q)
}

// reconcilerStub records the IDs handed to background reconciliation.
type reconcilerStub struct {
	called chan []int64
}

func newReconcilerStub() *reconcilerStub {
	return &reconcilerStub{called: make(chan []int64, 1)}
}

func (s *reconcilerStub) ReconcileIDs(_ context.Context, ids []int64) error {
	s.called <- ids
	return nil
}

func alwaysUser(_ context.Context, _ int64) (bool, error)  { return false, nil }
func alwaysAdmin(_ context.Context, _ int64) (bool, error) { return true, nil }

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
