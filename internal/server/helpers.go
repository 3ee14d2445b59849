// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"zephyr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive int64. On failure it
// writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewParamsError("Invalid post ID"))
		return 0, errResponseWritten
	}
	return int64(id), nil
}

// currentUserID returns the authenticated user's ID, set by AuthRequired.
func currentUserID(c *fiber.Ctx) int64 {
	if id, ok := c.Locals("userID").(int64); ok {
		return id
	}
	return 0
}

// viewerID returns the user ID when a token was presented, zero for
// anonymous requests. Used on routes behind AuthOptional.
func viewerID(c *fiber.Ctx) int64 {
	return currentUserID(c)
}
