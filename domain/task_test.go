package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskFilter_Matches(t *testing.T) {
	task := Task{Status: StatusOpen, Category: CategoryCoding, Location: "Lyon 7e", CreatorID: "alice"}
	task.Apply("bob", "", time.Now())

	tests := []struct {
		name   string
		filter TaskFilter
		want   bool
	}{
		{"empty filter", TaskFilter{}, true},
		{"location ignores case", TaskFilter{Location: "LYON"}, true},
		{"other location", TaskFilter{Location: "Paris"}, false},
		{"other status", TaskFilter{Status: StatusCompleted}, false},
		{"other category", TaskFilter{Category: CategoryDesign}, false},
		{"creator", TaskFilter{CreatorID: "alice"}, true},
		{"applicant", TaskFilter{ApplicantID: "bob"}, true},
		{"not an applicant", TaskFilter{ApplicantID: "alice"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.filter.Matches(task))
		})
	}
}

func TestUser_Redeem(t *testing.T) {
	req := require.New(t)
	user := User{Credits: 5}

	// When more than the balance is asked
	req.False(user.Redeem("Coffee voucher", 6, time.Now()))

	// Then nothing changes
	req.Equal(5, user.Credits)
	req.Empty(user.RedemptionHistory)

	req.True(user.Redeem("Coffee voucher", 5, time.Now()))
	req.Zero(user.Credits)
	req.Len(user.RedemptionHistory, 1)
}
