package server

import (
	"zephyr/internal/models"
	"zephyr/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// CreatePost creates a post owned by the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in postRequest
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one live post.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost replaces a post's content. Author or admin only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in postRequest
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost soft-deletes a post. Author or admin only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// QueryPosts runs a structured query against the primary store.
func (s *Server) QueryPosts(c *fiber.Ctx) error {
	var q models.PostQuery
	if err := c.BodyParser(&q); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	page, err := s.postService.ListPosts(c.UserContext(), q, viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// SearchPosts runs a full-text query through the search index.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	var q models.PostQuery
	if err := c.BodyParser(&q); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	page, err := s.postService.SearchPosts(c.UserContext(), q, viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}
