// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a forum post. Soft deletion is tracked with the explicit
// IsDeleted flag rather than gorm.DeletedAt so that the index sync jobs can
// still select deleted rows and propagate the flag to the search index. The
// flag must also survive JSON round-trips: cached copies carry it so a
// tombstone read back from Redis is still recognizable as deleted.
type Post struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Tags         []string  `gorm:"column:tags_json;type:text;serializer:json" json:"tags"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	LikeCount    int64     `gorm:"not null;default:0" json:"like_count"`
	CollectCount int64     `gorm:"not null;default:0" json:"collect_count"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	// HasLike/HasCollect are not persisted; filled in for the requesting user
	HasLike    bool      `gorm:"-" json:"has_like"`
	HasCollect bool      `gorm:"-" json:"has_collect"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName maps Post to the singular table name used by the schema.
func (Post) TableName() string { return "post" }
