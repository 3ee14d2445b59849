package repository

import (
	"context"
	"fmt"

	"zephyr/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository defines data operations on the per-user engagement
// relations (post_like, post_collection). The relation is selected by kind.
type EngagementRepository interface {
	Exists(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error)
	Insert(ctx context.Context, kind models.EngagementKind, postID, userID int64) error
	Delete(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error)
	ListPostIDs(ctx context.Context, kind models.EngagementKind, userID int64, limit, offset int) ([]int64, int64, error)
	ListByUserAndPosts(ctx context.Context, kind models.EngagementKind, userID int64, postIDs []int64) ([]int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func engagementTable(kind models.EngagementKind) (string, error) {
	switch kind {
	case models.EngagementLike:
		return models.PostLike{}.TableName(), nil
	case models.EngagementCollect:
		return models.PostCollection{}.TableName(), nil
	}
	return "", fmt.Errorf("unknown engagement kind %q", kind)
}

func (r *engagementRepository) Exists(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error) {
	table, err := engagementTable(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = r.db.WithContext(ctx).
		Table(table).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) Insert(ctx context.Context, kind models.EngagementKind, postID, userID int64) error {
	switch kind {
	case models.EngagementLike:
		return r.db.WithContext(ctx).Create(&models.PostLike{PostID: postID, UserID: userID}).Error
	case models.EngagementCollect:
		return r.db.WithContext(ctx).Create(&models.PostCollection{PostID: postID, UserID: userID}).Error
	}
	return fmt.Errorf("unknown engagement kind %q", kind)
}

// Delete removes the engagement row. Returns false when no row existed.
func (r *engagementRepository) Delete(ctx context.Context, kind models.EngagementKind, postID, userID int64) (bool, error) {
	var res *gorm.DB
	switch kind {
	case models.EngagementLike:
		res = r.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostLike{})
	case models.EngagementCollect:
		res = r.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostCollection{})
	default:
		return false, fmt.Errorf("unknown engagement kind %q", kind)
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPostIDs pages the post IDs a user has engaged with, newest engagement
// first. Engagements whose post has since been soft-deleted are excluded
// from both the page and the total, so the count matches what is retrievable.
func (r *engagementRepository) ListPostIDs(ctx context.Context, kind models.EngagementKind, userID int64, limit, offset int) ([]int64, int64, error) {
	table, err := engagementTable(kind)
	if err != nil {
		return nil, 0, err
	}

	base := r.db.WithContext(ctx).
		Table(table).
		Joins("JOIN post ON post.id = "+table+".post_id").
		Where(table+".user_id = ? AND post.is_deleted = ?", userID, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err = base.
		Order(table + ".created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck(table+".post_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

// ListByUserAndPosts returns the subset of postIDs the user has engaged with.
// Used to fill the has_like/has_collect flags on result pages in one query.
func (r *engagementRepository) ListByUserAndPosts(ctx context.Context, kind models.EngagementKind, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	table, err := engagementTable(kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	err = r.db.WithContext(ctx).
		Table(table).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
