package domain

import (
	"slices"
	"strings"
	"time"
)

type TaskCategory string

const (
	CategoryDesign   TaskCategory = "Design"
	CategoryCoding   TaskCategory = "Coding"
	CategoryTutoring TaskCategory = "Tutoring"
	CategoryOther    TaskCategory = "Other"
)

type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []TaskStatus{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled}

type ApplicationStatus string

const ApplicationPending ApplicationStatus = "pending"

// Applicant is a user who offered to do a task.
type Applicant struct {
	UserID    string            `json:"user"`
	Message   string            `json:"message,omitempty"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"appliedAt"`
}

// Task is the marketplace micro-task a conversation may originate from.
// Completing it credits the assignee with Credits.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	Location    string       `json:"location"`
	Credits     int          `json:"credits"`
	Status      TaskStatus   `json:"status"`
	CreatorID   string       `json:"creatorId"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	Applicants  []Applicant  `json:"applicants"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

func (t Task) HasApplicant(userID string) bool {
	return slices.ContainsFunc(t.Applicants, func(a Applicant) bool { return a.UserID == userID })
}

// Apply records a pending application of userID.
func (t *Task) Apply(userID, message string, at time.Time) {
	t.Applicants = append(t.Applicants, Applicant{
		UserID:    userID,
		Message:   message,
		Status:    ApplicationPending,
		AppliedAt: at,
	})
	t.UpdatedAt = at
}

// Complete closes the task. An empty assigneeID completes it without reward.
func (t *Task) Complete(assigneeID string, at time.Time) {
	t.Status = StatusCompleted
	t.AssignedTo = assigneeID
	t.CompletedAt = &at
	t.UpdatedAt = at
}

// TaskFilter selects tasks, empty fields match everything.
type TaskFilter struct {
	Status      TaskStatus
	Category    TaskCategory
	Location    string // case-insensitive substring
	CreatorID   string
	ApplicantID string
}

func (f TaskFilter) Matches(t Task) bool {
	switch {
	case f.Status != "" && t.Status != f.Status:
		return false
	case f.Category != "" && t.Category != f.Category:
		return false
	case f.Location != "" && !strings.Contains(strings.ToLower(t.Location), strings.ToLower(f.Location)):
		return false
	case f.CreatorID != "" && t.CreatorID != f.CreatorID:
		return false
	case f.ApplicantID != "" && !t.HasApplicant(f.ApplicantID):
		return false
	}
	return true
}
