package server

import (
	"strconv"
	"time"

	"zephyr/internal/models"
	"zephyr/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account and returns a signed token.
func (s *Server) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewSystemError("failed to issue token", err))
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

// Login verifies credentials and returns a signed token.
func (s *Server) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, models.NewParamsError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewSystemError("failed to issue token", err))
	}

	return c.JSON(authResponse{Token: token, User: user})
}

func (s *Server) signToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
