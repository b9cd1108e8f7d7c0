//go:generate go run go.uber.org/mock/mockgen -source=task_service.go -destination=../mocks/mock_task_service.go -package=mocks
package services

import (
	"context"
	"github.com/google/uuid"
	"log/slog"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/errors"
	"skillsync/repositories"
	"strings"
	"time"
)

type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required,max=100"`
	Description string              `json:"description" validate:"required,max=2000"`
	Category    domain.TaskCategory `json:"category" validate:"required,oneof=Design Coding Tutoring Other"`
	Location    string              `json:"location" validate:"required,max=100"`
	Credits     int                 `json:"credits" validate:"min=1"`
}

// UpdateTaskRequest only changes the fields that are present.
type UpdateTaskRequest struct {
	Title       *string              `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string              `json:"description" validate:"omitnil,min=1,max=2000"`
	Category    *domain.TaskCategory `json:"category" validate:"omitnil,oneof=Design Coding Tutoring Other"`
	Location    *string              `json:"location" validate:"omitnil,min=1,max=100"`
	Credits     *int                 `json:"credits" validate:"omitnil,min=1"`
	Status      *domain.TaskStatus   `json:"status" validate:"omitnil,oneof=open 'in progress' cancelled"`
}

type ApplyRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

type CompleteTaskRequest struct {
	AssignedTo string `json:"assignedTo" validate:"required"`
}

// MyTasks splits the tasks of a user by role.
type MyTasks struct {
	Created []domain.Task `json:"created"`
	Applied []domain.Task `json:"applied"`
}

type ITaskService interface {
	CreateTask(ctx context.Context, creatorID string, req CreateTaskRequest) (domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	MyTasks(ctx context.Context, userID string) (MyTasks, error)
	UpdateTask(ctx context.Context, callerID, id string, req UpdateTaskRequest) (domain.Task, error)
	DeleteTask(ctx context.Context, callerID, id string) error
	ApplyForTask(ctx context.Context, callerID, id string, req ApplyRequest) (domain.Task, error)
	CompleteTask(ctx context.Context, callerID, id string, req CompleteTaskRequest) (domain.Task, error)
}

type TaskService struct {
	log   *slog.Logger
	tasks repositories.ITaskRepository
}

func NewTaskService(log *slog.Logger, tasks repositories.ITaskRepository) *TaskService {
	return &TaskService{log: log, tasks: tasks}
}

func (s *TaskService) CreateTask(_ context.Context, creatorID string, req CreateTaskRequest) (domain.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := auth.Validate(req); err != nil {
		return domain.Task{}, err
	}
	now := time.Now().UTC()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Credits:     req.Credits,
		Status:      domain.StatusOpen,
		CreatorID:   creatorID,
		Applicants:  []domain.Applicant{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.CreateTask(task); err != nil {
		return domain.Task{}, err
	}
	s.log.Info("Task created", "task_id", task.ID, "creator", creatorID)
	return task, nil
}

func (s *TaskService) GetTask(_ context.Context, id string) (domain.Task, error) {
	return s.tasks.GetTask(id)
}

// ListTasks shows open tasks unless the filter names another status.
func (s *TaskService) ListTasks(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Status == "" {
		filter.Status = domain.StatusOpen
	}
	return s.tasks.ListTasks(filter)
}

func (s *TaskService) MyTasks(_ context.Context, userID string) (MyTasks, error) {
	created, err := s.tasks.ListTasks(domain.TaskFilter{CreatorID: userID})
	if err != nil {
		return MyTasks{}, err
	}
	applied, err := s.tasks.ListTasks(domain.TaskFilter{ApplicantID: userID})
	if err != nil {
		return MyTasks{}, err
	}
	return MyTasks{Created: created, Applied: applied}, nil
}

func (s *TaskService) UpdateTask(_ context.Context, callerID, id string, req UpdateTaskRequest) (domain.Task, error) {
	trim(req.Title)
	trim(req.Description)
	trim(req.Location)
	if err := auth.Validate(req); err != nil {
		return domain.Task{}, err
	}
	return s.tasks.UpdateTask(id, func(task *domain.Task) error {
		if task.CreatorID != callerID {
			return errors.ErrNotTaskCreator
		}
		if task.Status == domain.StatusCompleted {
			return errors.ErrTaskCompleted
		}
		setIfPresent(&task.Title, req.Title)
		setIfPresent(&task.Description, req.Description)
		setIfPresent(&task.Category, req.Category)
		setIfPresent(&task.Location, req.Location)
		setIfPresent(&task.Credits, req.Credits)
		setIfPresent(&task.Status, req.Status)
		task.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (s *TaskService) DeleteTask(_ context.Context, callerID, id string) error {
	err := s.tasks.DeleteTask(id, func(task domain.Task) error {
		if task.CreatorID != callerID {
			return errors.ErrNotTaskCreator
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Task removed", "task_id", id, "creator", callerID)
	return nil
}

// ApplyForTask records a pending application on an open task of someone else, once per user.
func (s *TaskService) ApplyForTask(_ context.Context, callerID, id string, req ApplyRequest) (domain.Task, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := auth.Validate(req); err != nil {
		return domain.Task{}, err
	}
	return s.tasks.UpdateTask(id, func(task *domain.Task) error {
		switch {
		case task.Status != domain.StatusOpen:
			return errors.ErrTaskNotOpen
		case task.CreatorID == callerID:
			return errors.ErrOwnTask
		case task.HasApplicant(callerID):
			return errors.ErrAlreadyApplied
		}
		task.Apply(callerID, req.Message, time.Now().UTC())
		return nil
	})
}

// CompleteTask closes the task and pays its credits to the assignee.
func (s *TaskService) CompleteTask(_ context.Context, callerID, id string, req CompleteTaskRequest) (domain.Task, error) {
	req.AssignedTo = strings.TrimSpace(req.AssignedTo)
	if err := auth.Validate(req); err != nil {
		return domain.Task{}, err
	}
	task, err := s.tasks.CompleteTask(id, func(task *domain.Task) error {
		switch {
		case task.CreatorID != callerID:
			return errors.ErrNotTaskCreator
		case task.Status == domain.StatusCompleted:
			return errors.ErrTaskCompleted
		case req.AssignedTo == callerID:
			return errors.ErrOwnTask
		}
		task.Complete(req.AssignedTo, time.Now().UTC())
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.log.Info("Task completed", "task_id", id, "assignee", req.AssignedTo, "credits", task.Credits)
	return task, nil
}

func setIfPresent[T any](field *T, value *T) {
	if value != nil {
		*field = *value
	}
}
