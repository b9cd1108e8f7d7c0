//go:generate go run go.uber.org/mock/mockgen -source=rewards_service.go -destination=../mocks/mock_rewards_service.go -package=mocks
package services

import (
	"cmp"
	"context"
	"github.com/samber/lo"
	"log/slog"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/errors"
	"skillsync/repositories"
	"slices"
	"strings"
	"time"
)

const leaderboardSize = 10

type Rewards struct {
	Credits int      `json:"credits"`
	Badges  []string `json:"badges"`
}

type LeaderboardEntry struct {
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	Credits  int      `json:"credits"`
	Badges   []string `json:"badges"`
}

type RedeemRequest struct {
	Option  string `json:"option" validate:"required,max=100"`
	Credits int    `json:"credits" validate:"gt=0"`
}

type Redeemed struct {
	Message          string `json:"message"`
	RemainingCredits int    `json:"remainingCredits"`
}

type IRewardsService interface {
	GetRewards(ctx context.Context, userID string) (Rewards, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	Redeem(ctx context.Context, userID string, req RedeemRequest) (Redeemed, error)
}

type RewardsService struct {
	log   *slog.Logger
	users repositories.IUserRepository
}

func NewRewardsService(log *slog.Logger, users repositories.IUserRepository) *RewardsService {
	return &RewardsService{log: log, users: users}
}

func (s *RewardsService) GetRewards(_ context.Context, userID string) (Rewards, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return Rewards{}, err
	}
	return Rewards{Credits: user.Credits, Badges: badgesOf(user)}, nil
}

// Leaderboard ranks the users by credits, ties by name.
func (s *RewardsService) Leaderboard(_ context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(users, func(a, b domain.User) int {
		return cmp.Or(cmp.Compare(b.Credits, a.Credits), strings.Compare(a.Name, b.Name))
	})
	top := users[:min(len(users), leaderboardSize)]
	return lo.Map(top, func(u domain.User, _ int) LeaderboardEntry {
		return LeaderboardEntry{Name: u.Name, Location: u.Location, Credits: u.Credits, Badges: badgesOf(u)}
	}), nil
}

// Redeem spends credits atomically, a low balance changes nothing.
func (s *RewardsService) Redeem(_ context.Context, userID string, req RedeemRequest) (Redeemed, error) {
	req.Option = strings.TrimSpace(req.Option)
	if err := auth.Validate(req); err != nil {
		return Redeemed{}, err
	}
	user, err := s.users.UpdateUser(userID, func(user *domain.User) error {
		if !user.Redeem(req.Option, req.Credits, time.Now().UTC()) {
			return errors.ErrInsufficientCredits
		}
		return nil
	})
	if err != nil {
		return Redeemed{}, err
	}
	s.log.Info("Credits redeemed", "user_id", userID, "option", req.Option, "credits", req.Credits)
	return Redeemed{Message: "Credits redeemed successfully", RemainingCredits: user.Credits}, nil
}

func badgesOf(user domain.User) []string {
	if user.Badges == nil {
		return []string{}
	}
	return user.Badges
}
