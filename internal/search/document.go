// Package search maintains the full-text post index and its query surface.
package search

import (
	"time"

	"zephyr/internal/models"
)

// Document is the shape of a post as stored in the search index. Engagement
// counters are deliberately absent: they change far too often to keep in the
// index, so reads always re-hydrate them from the primary store.
type Document struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UserID    int64     `json:"user_id"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentFromPost projects a post row into its index document.
func DocumentFromPost(p *models.Post) Document {
	return Document{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      p.Tags,
		UserID:    p.UserID,
		IsDeleted: p.IsDeleted,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
