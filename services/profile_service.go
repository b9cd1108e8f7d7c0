//go:generate go run go.uber.org/mock/mockgen -source=profile_service.go -destination=../mocks/mock_profile_service.go -package=mocks
package services

import (
	"context"
	"github.com/samber/lo"
	"log/slog"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/repositories"
	"strings"
	"time"
)

// Profile is the public view of a user, without credentials.
type Profile struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Location       string         `json:"location,omitempty"`
	Bio            string         `json:"bio,omitempty"`
	Skills         []domain.Skill `json:"skills"`
	Credits        int            `json:"credits"`
	Badges         []string       `json:"badges"`
	CompletedTasks int            `json:"completedTasks"`
	CreatedTasks   int            `json:"createdTasks"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type SkillRequest struct {
	Name        string             `json:"name" validate:"required,max=50"`
	Proficiency domain.Proficiency `json:"proficiency" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// UpdateProfileRequest only changes the fields that are present.
// Skills replace the whole list, an absent list keeps it.
type UpdateProfileRequest struct {
	Name     *string        `json:"name" validate:"omitnil,min=1,max=100"`
	Bio      *string        `json:"bio" validate:"omitempty,max=500"`
	Location *string        `json:"location" validate:"omitempty,max=100"`
	Skills   []SkillRequest `json:"skills" validate:"omitempty,max=30,dive"`
}

type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (Profile, error)
}

type ProfileService struct {
	log   *slog.Logger
	users repositories.IUserRepository
}

func NewProfileService(log *slog.Logger, users repositories.IUserRepository) *ProfileService {
	return &ProfileService{log: log, users: users}
}

func (s *ProfileService) GetProfile(_ context.Context, userID string) (Profile, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return Profile{}, err
	}
	return toFullProfile(user), nil
}

func (s *ProfileService) UpdateProfile(_ context.Context, userID string, req UpdateProfileRequest) (Profile, error) {
	trim(req.Name)
	trim(req.Bio)
	trim(req.Location)
	if req.Skills != nil {
		req.Skills = lo.Map(req.Skills, func(skill SkillRequest, _ int) SkillRequest {
			skill.Name = strings.TrimSpace(skill.Name)
			return skill
		})
	}
	if err := auth.Validate(req); err != nil {
		return Profile{}, err
	}
	user, err := s.users.UpdateUser(userID, func(user *domain.User) error {
		setIfPresent(&user.Name, req.Name)
		setIfPresent(&user.Bio, req.Bio)
		setIfPresent(&user.Location, req.Location)
		if req.Skills != nil {
			user.Skills = lo.Map(req.Skills, func(skill SkillRequest, _ int) domain.Skill {
				return domain.Skill{
					Name:        skill.Name,
					Proficiency: lo.CoalesceOrEmpty(skill.Proficiency, domain.ProficiencyIntermediate),
				}
			})
		}
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	s.log.Debug("Profile updated", "user_id", userID)
	return toFullProfile(user), nil
}

func toFullProfile(user domain.User) Profile {
	return Profile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Location:       user.Location,
		Bio:            user.Bio,
		Skills:         lo.Ternary(user.Skills == nil, []domain.Skill{}, user.Skills),
		Credits:        user.Credits,
		Badges:         badgesOf(user),
		CompletedTasks: user.CompletedTasks,
		CreatedTasks:   user.CreatedTasks,
		CreatedAt:      user.CreatedAt,
	}
}

func trim(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}
