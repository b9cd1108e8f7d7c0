package domain

import "time"

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

type Skill struct {
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
}

// Redemption is one spending of credits.
type Redemption struct {
	Option     string    `json:"option"`
	Credits    int       `json:"credits"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Location     string    `json:"location,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Skills       []Skill   `json:"skills,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`

	Credits           int          `json:"credits"`
	Badges            []string     `json:"badges,omitempty"`
	CompletedTasks    int          `json:"completedTasks"`
	CreatedTasks      int          `json:"createdTasks"`
	RedemptionHistory []Redemption `json:"redemptionHistory,omitempty"`
}

// Redeem spends credits. It reports false and changes nothing when the balance is too low.
func (u *User) Redeem(option string, credits int, at time.Time) bool {
	if credits <= 0 || u.Credits < credits {
		return false
	}
	u.Credits -= credits
	u.RedemptionHistory = append(u.RedemptionHistory, Redemption{Option: option, Credits: credits, RedeemedAt: at})
	return true
}
