//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/errors"
	"skillsync/repositories"
	"strings"
	"time"
)

var defaultRoles = []string{"user"}

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (Session, error)
	Login(ctx context.Context, req auth.LoginRequest) (Session, error)
	CurrentUser(ctx context.Context, userID string) (UserProfile, error)
}

// Session is what a successful signup or login returns.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type AuthService struct {
	log            *slog.Logger
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(log *slog.Logger, repo repositories.IUserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{log: log, userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(_ context.Context, req auth.RegisterRequest) (Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	// Validation runs before any expensive hashing
	if err := auth.ValidateRegister(req); err != nil {
		return Session{}, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Location:     strings.TrimSpace(req.Location),
		Roles:        defaultRoles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepository.CreateUser(user); err != nil {
		return Session{}, err
	}
	s.log.Info("User registered", "user_id", user.ID)
	return s.newSession(user)
}

// Login never tells whether the email or the password was wrong.
func (s *AuthService) Login(_ context.Context, req auth.LoginRequest) (Session, error) {
	if err := auth.Validate(req); err != nil {
		return Session{}, errors.ErrInvalidCredentials
	}
	user, err := s.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return Session{}, errors.ErrInvalidCredentials
		}
		return Session{}, err
	}
	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}
	return s.newSession(user)
}

func (s *AuthService) CurrentUser(_ context.Context, userID string) (UserProfile, error) {
	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return UserProfile{}, err
	}
	return toProfile(user), nil
}

func (s *AuthService) newSession(user domain.User) (Session, error) {
	token, err := s.tokens.Generate(user.ID, user.Roles)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: toProfile(user)}, nil
}

func toProfile(user domain.User) UserProfile {
	return UserProfile{ID: user.ID, Name: user.Name, Email: user.Email, Location: user.Location}
}
