package service

import (
	"context"

	"zephyr/internal/models"
	"zephyr/internal/observability"
	"zephyr/internal/repository"
)

// EngagementService implements the like/collect toggle protocol. A toggle
// flips the caller's engagement state for a post and adjusts the post's
// counter in the same call: +1 when the engagement was created, -1 when it
// was removed.
//
// Concurrency model: all toggles by the same user are serialized on a
// per-user lock, so a user's record check and record write can never race
// with themselves. Toggles by different users run concurrently and rely on
// the conditional counter UPDATE for correctness.
type EngagementService struct {
	postRepo repository.PostRepository
	engRepo  repository.EngagementRepository
	locks    *keyedLocks
}

// NewEngagementService creates a new engagement service
func NewEngagementService(postRepo repository.PostRepository, engRepo repository.EngagementRepository) *EngagementService {
	return &EngagementService{
		postRepo: postRepo,
		engRepo:  engRepo,
		locks:    newKeyedLocks(),
	}
}

// Toggle flips the user's engagement of the given kind on the post.
// Returns +1 when the engagement was added, -1 when removed.
func (s *EngagementService) Toggle(ctx context.Context, kind models.EngagementKind, postID, userID int64) (int, error) {
	if postID <= 0 {
		return 0, models.NewParamsError("Invalid post ID")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, models.NewNotFoundError("Post", postID)
		}
		return 0, models.NewSystemError("failed to load post", err)
	}
	if post.IsDeleted {
		return 0, models.NewNotFoundError("Post", postID)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	delta, err := s.toggleLocked(ctx, kind, postID, userID)
	outcome := "error"
	if err == nil {
		if delta > 0 {
			outcome = "on"
		} else {
			outcome = "off"
		}
	}
	observability.ToggleOperations.WithLabelValues(kind.String(), outcome).Inc()
	return delta, err
}

// toggleLocked runs under the caller's per-user lock.
func (s *EngagementService) toggleLocked(ctx context.Context, kind models.EngagementKind, postID, userID int64) (int, error) {
	exists, err := s.engRepo.Exists(ctx, kind, postID, userID)
	if err != nil {
		return 0, models.NewSystemError("failed to check engagement state", err)
	}

	if exists {
		removed, err := s.engRepo.Delete(ctx, kind, postID, userID)
		if err != nil {
			return 0, models.NewSystemError("failed to remove engagement record", err)
		}
		if !removed {
			// the record vanished despite the lock; state is inconsistent
			return 0, models.NewSystemError("engagement record missing during removal", nil)
		}
		// A guard miss here means the counter already sat at zero. The record
		// removal stands; the counter drift is tolerated rather than failing
		// the user's action.
		if _, err := s.postRepo.DecrementCounter(ctx, kind, postID); err != nil {
			return 0, models.NewSystemError("failed to update post counter", err)
		}
		return -1, nil
	}

	if err := s.engRepo.Insert(ctx, kind, postID, userID); err != nil {
		return 0, models.NewSystemError("failed to write engagement record", err)
	}
	updated, err := s.postRepo.IncrementCounter(ctx, kind, postID)
	if err != nil {
		return 0, models.NewSystemError("failed to update post counter", err)
	}
	if !updated {
		// record was written but the counter row was gone: partial state
		return 0, models.NewSystemError("post counter update matched no row", nil)
	}
	return 1, nil
}

// ListEngagedPosts pages the posts a user has engaged with, newest engagement
// first. The repository counts live posts only, so Total matches what is
// retrievable; a post deleted between the count and the hydrate is still
// dropped from the page.
func (s *EngagementService) ListEngagedPosts(ctx context.Context, kind models.EngagementKind, userID int64, page, pageSize int) (*models.PostPage, error) {
	page, pageSize = normalizePagination(page, pageSize)

	offset := (page - 1) * pageSize
	ids, total, err := s.engRepo.ListPostIDs(ctx, kind, userID, pageSize, offset)
	if err != nil {
		return nil, models.NewSystemError("failed to list engagements", err)
	}

	byID, err := s.postRepo.ListByIDs(ctx, ids, false)
	if err != nil {
		return nil, models.NewSystemError("failed to load posts", err)
	}

	records := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			records = append(records, post)
		}
	}

	if err := enrichEngagementFlags(ctx, s.engRepo, records, userID); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// enrichEngagementFlags fills HasLike/HasCollect on the posts for the given
// viewer with one query per relation. A zero viewer leaves the flags false.
func enrichEngagementFlags(ctx context.Context, engRepo repository.EngagementRepository, posts []*models.Post, viewerID int64) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	liked, err := engRepo.ListByUserAndPosts(ctx, models.EngagementLike, viewerID, ids)
	if err != nil {
		return models.NewSystemError("failed to load like state", err)
	}
	collected, err := engRepo.ListByUserAndPosts(ctx, models.EngagementCollect, viewerID, ids)
	if err != nil {
		return models.NewSystemError("failed to load collect state", err)
	}

	likedSet := make(map[int64]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}
	collectedSet := make(map[int64]struct{}, len(collected))
	for _, id := range collected {
		collectedSet[id] = struct{}{}
	}

	for _, p := range posts {
		if _, ok := likedSet[p.ID]; ok {
			p.HasLike = true
		}
		if _, ok := collectedSet[p.ID]; ok {
			p.HasCollect = true
		}
	}
	return nil
}
