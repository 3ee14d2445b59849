// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zephyr/internal/cache"
	"zephyr/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, q models.PostQuery) ([]*models.Post, int64, error)
	ListByIDs(ctx context.Context, ids []int64, includeDeleted bool) (map[int64]*models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Post, error)
	IncrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error)
	DecrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID returns the row regardless of the deleted flag; callers decide
// whether a soft-deleted post counts as present.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// List runs a structured query over live posts. The sort field has already
// been validated against the allow-list by the service layer.
func (r *postRepository) List(ctx context.Context, q models.PostQuery) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("is_deleted = ?", false)

	if q.ID != nil {
		base = base.Where("id = ?", *q.ID)
	}
	if q.NotID != nil {
		base = base.Where("id <> ?", *q.NotID)
	}
	if q.UserID != nil {
		base = base.Where("user_id = ?", *q.UserID)
	}
	if q.Title != "" {
		base = base.Where("title LIKE ?", "%"+q.Title+"%")
	}
	if q.Content != "" {
		base = base.Where("content LIKE ?", "%"+q.Content+"%")
	}
	if q.SearchText != "" {
		st := "%" + q.SearchText + "%"
		base = base.Where("title LIKE ? OR content LIKE ?", st, st)
	}
	for _, tag := range q.Tags {
		base = base.Where("tags_json LIKE ?", "%\""+tag+"\"%")
	}
	if len(q.OrTags) > 0 {
		or := r.db.Session(&gorm.Session{NewDB: true})
		cond := or
		for i, tag := range q.OrTags {
			if i == 0 {
				cond = or.Where("tags_json LIKE ?", "%\""+tag+"\"%")
			} else {
				cond = cond.Or("tags_json LIKE ?", "%\""+tag+"\"%")
			}
		}
		base = base.Where(cond)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if q.SortField != "" {
		order := "ASC"
		if q.SortOrder == models.SortOrderDesc {
			order = "DESC"
		}
		base = base.Order(fmt.Sprintf("%s %s", q.SortField, order))
	} else {
		base = base.Order("created_at DESC")
	}

	var posts []*models.Post
	err := base.Limit(q.PageSize).Offset(q.Offset()).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByIDs fetches posts keyed by ID. With includeDeleted false, soft-deleted
// rows are absent from the map and the caller treats them as dead references.
func (r *postRepository) ListByIDs(ctx context.Context, ids []int64, includeDeleted bool) (map[int64]*models.Post, error) {
	out := make(map[int64]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := r.db.WithContext(ctx).Where("id IN ?", ids)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var posts []*models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

// ListAll pages the full post table, deleted rows included, for bootstrap sync.
func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListUpdatedSince returns every row touched at or after the cutoff,
// deleted rows included so the index learns about removals.
func (r *postRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("updated_at >= ?", since).
		Order("id ASC").
		Find(&posts).Error
	return posts, err
}

func counterColumn(kind models.EngagementKind) (string, error) {
	switch kind {
	case models.EngagementLike:
		return "like_count", nil
	case models.EngagementCollect:
		return "collect_count", nil
	}
	return "", fmt.Errorf("unknown engagement kind %q", kind)
}

// IncrementCounter bumps the engagement counter in a single conditional
// UPDATE so concurrent toggles never lose increments. Returns false when no
// row matched.
func (r *postRepository) IncrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error) {
	col, err := counterColumn(kind)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE post SET %s = %s + 1 WHERE id = ?", col, col),
		postID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	cache.InvalidatePost(ctx, postID)
	return res.RowsAffected > 0, nil
}

// DecrementCounter decrements with a floor guard so the counter can never go
// negative. Returns false when the guard kept the row unchanged.
func (r *postRepository) DecrementCounter(ctx context.Context, kind models.EngagementKind, postID int64) (bool, error) {
	col, err := counterColumn(kind)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE post SET %s = %s - 1 WHERE id = ? AND %s > 0", col, col, col),
		postID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	cache.InvalidatePost(ctx, postID)
	return res.RowsAffected > 0, nil
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
