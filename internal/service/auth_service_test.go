package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faqcenter/internal/apperr"
	"faqcenter/internal/config"
	"faqcenter/internal/models"
	"faqcenter/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:        "test-secret-key",
		AccessTokenDuration: time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Роль по умолчанию - user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, testAuthConfig())

		userRepo.On("GetUserByEmail", ctx, "new@example.com").Return(nil, apperr.ErrNotFound)
		userRepo.On("CreateUser", ctx, mock.Anything, "password123").Return(nil)

		user, err := svc.Register(ctx, repository.CreateUserRequest{
			Email:    "new@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("Повторная регистрация email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, testAuthConfig())

		userRepo.On("GetUserByEmail", ctx, "taken@example.com").
			Return(&models.User{Email: "taken@example.com"}, nil)

		_, err := svc.Register(ctx, repository.CreateUserRequest{
			Email:    "taken@example.com",
			Password: "password123",
		})

		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешный вход выдает валидный токен с ролью", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		cfg := testAuthConfig()
		svc := NewAuthService(userRepo, cfg)

		userRepo.On("VerifyPassword", ctx, "admin@example.com", "password123").
			Return(&models.User{UserID: "uid-1", Email: "admin@example.com", Role: models.RoleAdmin}, nil)

		user, tokenString, err := svc.Login(ctx, "admin@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UserID)

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecretKey), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "uid-1", claims["user_id"])
		assert.Equal(t, models.RoleAdmin, claims["role"])
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, testAuthConfig())

		userRepo.On("VerifyPassword", ctx, "admin@example.com", "wrong").
			Return(nil, apperr.ErrForbidden)

		_, _, err := svc.Login(ctx, "admin@example.com", "wrong")

		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}
