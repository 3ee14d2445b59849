package server

import (
	"zephyr/internal/models"

	"github.com/gofiber/fiber/v2"
)

type toggleResponse struct {
	Delta int `json:"delta"`
}

// ToggleLike flips the caller's like on a post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	return s.toggle(c, models.EngagementLike)
}

// ToggleCollect flips the caller's bookmark on a post.
func (s *Server) ToggleCollect(c *fiber.Ctx) error {
	return s.toggle(c, models.EngagementCollect)
}

func (s *Server) toggle(c *fiber.Ctx, kind models.EngagementKind) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	delta, err := s.engagementService.Toggle(c.UserContext(), kind, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(toggleResponse{Delta: delta})
}

// ListMyLikes pages the caller's liked posts, newest like first.
func (s *Server) ListMyLikes(c *fiber.Ctx) error {
	return s.listEngaged(c, models.EngagementLike)
}

// ListMyCollections pages the caller's collected posts.
func (s *Server) ListMyCollections(c *fiber.Ctx) error {
	return s.listEngaged(c, models.EngagementCollect)
}

func (s *Server) listEngaged(c *fiber.Ctx, kind models.EngagementKind) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	result, err := s.engagementService.ListEngagedPosts(
		c.UserContext(), kind, currentUserID(c), page, pageSize)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}
