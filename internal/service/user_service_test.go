package service

import (
	"context"
	"testing"

	"zephyr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, int64) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ int64) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "Short Username", input: RegisterInput{Username: "ab", Email: "a@b.co", Password: "password1"}},
		{name: "Bad Email", input: RegisterInput{Username: "valid", Email: "nope", Password: "password1"}},
		{name: "Short Password", input: RegisterInput{Username: "valid", Email: "a@b.co", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assertAppError(t, err, models.CodeParamsError)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1}, nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "taken", Email: "a@b.co", Password: "password1"})
	assertAppError(t, err, models.CodeParamsError)
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		created = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, "password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password1")))
	assert.Equal(t, string(models.RoleUser), user.Role)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "alice" {
			return &models.User{ID: 1, Username: "alice", Password: string(hash)}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "alice", "password1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		assertAppError(t, err, models.CodeUnauthorized)
	})

	t.Run("Unknown User", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "bob", "password1")
		assertAppError(t, err, models.CodeUnauthorized)
	})
}

func TestIsAdmin(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id int64) (*models.User, error) {
		if id == 1 {
			return &models.User{ID: 1, Role: string(models.RoleAdmin)}, nil
		}
		if id == 2 {
			return &models.User{ID: 2, Role: string(models.RoleUser)}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	admin, err := svc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, 2)
	require.NoError(t, err)
	assert.False(t, admin)

	admin, err = svc.IsAdmin(ctx, 99)
	require.NoError(t, err)
	assert.False(t, admin)
}
