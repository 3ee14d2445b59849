package models

import (
	"fmt"
	"time"
)

// EngagementKind selects which engagement relation a toggle operates on.
type EngagementKind string

const (
	// EngagementLike is the like relation backed by the post_like table.
	EngagementLike EngagementKind = "like"
	// EngagementCollect is the bookmark relation backed by the post_collection table.
	EngagementCollect EngagementKind = "collect"
)

// ParseEngagementKind maps a string onto an EngagementKind. Unrecognized
// values are an error; there is no fallback kind.
func ParseEngagementKind(s string) (EngagementKind, error) {
	switch EngagementKind(s) {
	case EngagementLike:
		return EngagementLike, nil
	case EngagementCollect:
		return EngagementCollect, nil
	}
	return "", fmt.Errorf("unknown engagement kind %q", s)
}

func (k EngagementKind) String() string { return string(k) }

// PostLike is one user's like of one post. Existence of the row is the
// liked state; there is no separate boolean and no history.
type PostLike struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;uniqueIndex:uk_post_like,priority:1" json:"post_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uk_post_like,priority:2;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_like" }

// PostCollection is one user's bookmark of one post, same shape as PostLike.
type PostCollection struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;uniqueIndex:uk_post_collection,priority:1" json:"post_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uk_post_collection,priority:2;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostCollection) TableName() string { return "post_collection" }
