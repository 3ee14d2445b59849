package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zephyr/internal/cache"
	"zephyr/internal/middleware"
	"zephyr/internal/models"
	"zephyr/internal/repository"
	"zephyr/internal/search"
)

const (
	maxTitleLen   = 80
	maxContentLen = 8192

	maxPageSize     = 20
	defaultPageSize = 10

	reconcileTimeout = 10 * time.Second
)

// Reconciler removes stale documents from the search index. The post service
// triggers it when a search returns IDs the primary store no longer has.
type Reconciler interface {
	ReconcileIDs(ctx context.Context, ids []int64) error
}

// PostService handles post CRUD and the two read paths: structured queries
// against the primary store and full-text queries federated through the
// search index.
type PostService struct {
	postRepo   repository.PostRepository
	engRepo    repository.EngagementRepository
	index      search.Index
	reconciler Reconciler
	isAdmin    func(ctx context.Context, userID int64) (bool, error)
}

type CreatePostInput struct {
	UserID  int64
	Title   string
	Content string
	Tags    []string
}

type UpdatePostInput struct {
	UserID  int64
	PostID  int64
	Title   string
	Content string
	Tags    []string
}

// NewPostService creates a new post service
func NewPostService(
	postRepo repository.PostRepository,
	engRepo repository.EngagementRepository,
	index search.Index,
	reconciler Reconciler,
	isAdmin func(ctx context.Context, userID int64) (bool, error),
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		engRepo:    engRepo,
		index:      index,
		reconciler: reconciler,
		isAdmin:    isAdmin,
	}
}

func validatePostFields(title, content string, tags []string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewParamsError("Title is required")
	}
	if len([]rune(title)) > maxTitleLen {
		return models.NewParamsError(fmt.Sprintf("Title must be at most %d characters", maxTitleLen))
	}
	if strings.TrimSpace(content) == "" {
		return models.NewParamsError("Content is required")
	}
	if len([]rune(content)) > maxContentLen {
		return models.NewParamsError(fmt.Sprintf("Content must be at most %d characters", maxContentLen))
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return models.NewParamsError("Tags must not be blank")
		}
	}
	return nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// validateQuery normalizes pagination and rejects sort fields outside the
// allow-list. An unrecognized non-empty sort field is a caller error, not
// something to silently ignore.
func validateQuery(q *models.PostQuery) error {
	q.Page, q.PageSize = normalizePagination(q.Page, q.PageSize)
	if q.SortField != "" && !models.ValidSortField(q.SortField) {
		return models.NewParamsError(fmt.Sprintf("Unsupported sort field %q", q.SortField))
	}
	if q.SortOrder != "" && q.SortOrder != models.SortOrderAsc && q.SortOrder != models.SortOrderDesc {
		return models.NewParamsError(fmt.Sprintf("Unsupported sort order %q", q.SortOrder))
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, in.Tags); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewSystemError("failed to create post", err)
	}
	return post, nil
}

// GetPost returns a live post. Anonymous reads go through the cache; signed-in
// reads hit the store directly and carry the viewer's engagement flags.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error) {
	if postID <= 0 {
		return nil, models.NewParamsError("Invalid post ID")
	}

	var post models.Post
	var err error
	if viewerID == 0 {
		err = cache.CacheAside(ctx, cache.PostKey(postID), &post, cache.PostTTL, func() error {
			p, err := s.postRepo.GetByID(ctx, postID)
			if err != nil {
				return err
			}
			post = *p
			return nil
		})
	} else {
		var p *models.Post
		p, err = s.postRepo.GetByID(ctx, postID)
		if err == nil {
			post = *p
		}
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewSystemError("failed to load post", err)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}

	result := []*models.Post{&post}
	if err := enrichEngagementFlags(ctx, s.engRepo, result, viewerID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.loadOwned(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := validatePostFields(in.Title, in.Content, in.Tags); err != nil {
		return nil, err
	}
	post.Title = in.Title
	post.Content = in.Content
	post.Tags = in.Tags

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewSystemError("failed to update post", err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
	if _, err := s.loadOwned(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.postRepo.SoftDelete(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewSystemError("failed to delete post", err)
	}
	return nil
}

// loadOwned fetches a live post and checks the caller may modify it:
// the author always can, admins can override.
func (s *PostService) loadOwned(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if postID <= 0 {
		return nil, models.NewParamsError("Invalid post ID")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewSystemError("failed to load post", err)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if post.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return nil, models.NewSystemError("failed to check permissions", err)
		}
		if !admin {
			return nil, models.NewForbiddenError("You do not own this post")
		}
	}
	return post, nil
}

// ListPosts runs a structured query against the primary store.
func (s *PostService) ListPosts(ctx context.Context, q models.PostQuery, viewerID int64) (*models.PostPage, error) {
	if err := validateQuery(&q); err != nil {
		return nil, err
	}

	records, total, err := s.postRepo.List(ctx, q)
	if err != nil {
		return nil, models.NewSystemError("failed to list posts", err)
	}
	if err := enrichEngagementFlags(ctx, s.engRepo, records, viewerID); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Records:  records,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// SearchPosts runs the query through the search index and re-hydrates the
// matching rows from the primary store, so counters on the page are always
// current. IDs the store no longer has (or has soft-deleted) are dropped from
// the page and handed to the reconciler in the background.
func (s *PostService) SearchPosts(ctx context.Context, q models.PostQuery, viewerID int64) (*models.PostPage, error) {
	if err := validateQuery(&q); err != nil {
		return nil, err
	}
	// the index only maps a subset of the sortable columns; rejecting the
	// rest here beats a mapping error out of Elasticsearch
	if q.SortField != "" && !models.ValidSearchSortField(q.SortField) {
		return nil, models.NewParamsError(fmt.Sprintf("Sort field %q is not available for search", q.SortField))
	}

	result, err := s.index.Search(ctx, q)
	if err != nil {
		return nil, models.NewSystemError("search index query failed", err)
	}

	ids := make([]int64, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}

	byID, err := s.postRepo.ListByIDs(ctx, ids, false)
	if err != nil {
		return nil, models.NewSystemError("failed to load posts", err)
	}

	records := make([]*models.Post, 0, len(ids))
	var missing []int64
	for _, id := range ids {
		post, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		records = append(records, post)
	}

	if len(missing) > 0 && s.reconciler != nil {
		// detached from the request: reconciliation must not extend or be
		// cancelled by the caller's deadline
		go func(ids []int64) {
			rctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
			defer cancel()
			if err := s.reconciler.ReconcileIDs(rctx, ids); err != nil {
				middleware.Logger.Warn("index reconciliation failed",
					"ids", ids, "error", err.Error())
			}
		}(missing)
	}

	if err := enrichEngagementFlags(ctx, s.engRepo, records, viewerID); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Records:  records,
		Total:    result.Total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}
