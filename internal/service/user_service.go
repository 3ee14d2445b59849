package service

import (
	"context"
	"strings"

	"zephyr/internal/models"
	"zephyr/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration and credential checks.
type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if len(username) < 3 || len(username) > 32 {
		return nil, models.NewParamsError("Username must be 3-32 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewParamsError("A valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewParamsError("Password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, models.NewParamsError("Username is already taken")
	} else if !repository.IsNotFound(err) {
		return nil, models.NewSystemError("failed to check username", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, models.NewParamsError("Email is already registered")
	} else if !repository.IsNotFound(err) {
		return nil, models.NewSystemError("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewSystemError("failed to hash password", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     string(models.RoleUser),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewSystemError("failed to create user", err)
	}
	return user, nil
}

// Authenticate verifies the username/password pair and returns the account.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, models.NewSystemError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// IsAdmin reports whether the user holds the admin role. Wired into the post
// service's permission checks.
func (s *UserService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}
