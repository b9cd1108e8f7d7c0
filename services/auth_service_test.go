package services_test

import (
	"context"
	"fmt"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"log/slog"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/errors"
	"skillsync/mocks"
	"skillsync/services"
	"testing"
	"time"
)

func newAuthService(t *testing.T) (*services.AuthService, *mocks.MockIUserRepository, *auth.TokenManager) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenManager("test-secret", "skillsync", 24*time.Hour)
	return services.NewAuthService(logs.GetLoggerFromLevel(slog.LevelDebug), repo, tokens), repo, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		svc, repo, tokens := newAuthService(t)
		var stored domain.User

		// Expect CreateUser with a hashed password, never the plain one
		repo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user domain.User) error {
			stored = user
			return nil
		})

		session, err := svc.Register(ctx, auth.RegisterRequest{Name: " Ada ", Email: " Ada@Example.com", Password: "secret1"})

		req.NoError(err)
		req.Equal("ada@example.com", stored.Email)
		req.Equal("Ada", stored.Name)
		req.NotEqual("secret1", stored.PasswordHash)
		match, err := auth.ComparePassword("secret1", stored.PasswordHash)
		req.NoError(err)
		req.True(match)

		req.Equal(stored.ID, session.User.ID)
		claims, err := tokens.Validate(session.Token)
		req.NoError(err)
		req.Equal(stored.ID, claims.UserID)
	})

	t.Run("should fail when validation is not met", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t)

		// Repository should never be called
		repo.EXPECT().CreateUser(gomock.Any()).Times(0)

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "short"})

		req.ErrorIs(err, errors.ErrInvalidRequest)
	})

	t.Run("should fail when user already exists", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t)

		repo.EXPECT().CreateUser(gomock.Any()).Return(errors.ErrUserAlreadyExists)

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashedPassword, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	storedUser := domain.User{ID: "uuid-123", Name: "Ada", Email: "ada@example.com", PasswordHash: hashedPassword, Roles: []string{"user"}}

	t.Run("should login with correct credentials", func(t *testing.T) {
		req := require.New(t)
		svc, repo, tokens := newAuthService(t)
		repo.EXPECT().GetUserByEmail("ada@example.com").Return(storedUser, nil)

		session, err := svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "secret1"})

		req.NoError(err)
		req.Equal("Ada", session.User.Name)
		claims, err := tokens.Validate(session.Token)
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
	})

	t.Run("should hide whether the email or the password is wrong", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t)
		repo.EXPECT().GetUserByEmail("ada@example.com").Return(storedUser, nil)
		repo.EXPECT().GetUserByEmail("nobody@example.com").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
		req.ErrorIs(err, errors.ErrInvalidCredentials)

		_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should surface storage failures", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t)
		repo.EXPECT().GetUserByEmail("ada@example.com").Return(domain.User{}, fmt.Errorf("disk failure"))

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "secret1"})

		req.Error(err)
		req.NotErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	req := require.New(t)
	svc, repo, _ := newAuthService(t)
	repo.EXPECT().GetUserByID("uuid-123").Return(domain.User{ID: "uuid-123", Name: "Ada", PasswordHash: "secret"}, nil)
	repo.EXPECT().GetUserByID("ghost").Return(domain.User{}, errors.ErrUserNotFound)

	profile, err := svc.CurrentUser(context.Background(), "uuid-123")
	req.NoError(err)
	req.Equal(services.UserProfile{ID: "uuid-123", Name: "Ada"}, profile)

	_, err = svc.CurrentUser(context.Background(), "ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
