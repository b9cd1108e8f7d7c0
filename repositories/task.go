//go:generate go run go.uber.org/mock/mockgen -source=task.go -destination=../mocks/mock_task_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/dgraph-io/badger/v4"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"slices"
)

const taskPrefix = "task:"

type ITaskRepository interface {
	CreateTask(task domain.Task) error
	GetTask(id string) (domain.Task, error)
	ListTasks(filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(id string, mutate func(task *domain.Task) error) (domain.Task, error)
	DeleteTask(id string, authorize func(task domain.Task) error) error
	CompleteTask(id string, mutate func(task *domain.Task) error) (domain.Task, error)
}

type TaskRepository struct {
	db *badger.DB
}

func NewTaskRepository(db *badger.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask stores the task and counts it on its creator.
func (r *TaskRepository) CreateTask(task domain.Task) error {
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		if _, err := updateUserTxn(txn, task.CreatorID, func(user *domain.User) error {
			user.CreatedTasks++
			return nil
		}); err != nil {
			return err
		}
		return setJSON(txn, taskPrefix+task.ID, task)
	})
}

func (r *TaskRepository) GetTask(id string) (domain.Task, error) {
	var task domain.Task
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, taskPrefix+id, &task)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Task{}, fmt.Errorf("%w: %s", cerrors.ErrTaskNotFound, id)
	}
	return task, err
}

// ListTasks scans every task, newest first.
func (r *TaskRepository) ListTasks(filter domain.TaskFilter) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(taskPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var task domain.Task
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &task)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if filter.Matches(task) {
				tasks = append(tasks, task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return tasks, nil
}

// UpdateTask applies mutate to the stored task in one transaction.
// An error from mutate aborts the write, ErrNoChange skips it.
func (r *TaskRepository) UpdateTask(id string, mutate func(task *domain.Task) error) (domain.Task, error) {
	var task domain.Task
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		var err error
		task, err = loadTask(txn, id)
		if err != nil {
			return err
		}
		if err := mutate(&task); err != nil {
			if errors.Is(err, ErrNoChange) {
				return nil
			}
			return err
		}
		return setJSON(txn, taskPrefix+id, task)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask removes the task once authorize accepted it and uncounts it on its creator.
func (r *TaskRepository) DeleteTask(id string, authorize func(task domain.Task) error) error {
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		task, err := loadTask(txn, id)
		if err != nil {
			return err
		}
		if err := authorize(task); err != nil {
			return err
		}
		if _, err := updateUserTxn(txn, task.CreatorID, func(user *domain.User) error {
			user.CreatedTasks = max(0, user.CreatedTasks-1)
			return nil
		}); err != nil {
			return err
		}
		return txn.Delete([]byte(taskPrefix + id))
	})
}

// CompleteTask applies mutate then credits task.AssignedTo with task.Credits
// and one completed task. Both writes commit or neither does.
func (r *TaskRepository) CompleteTask(id string, mutate func(task *domain.Task) error) (domain.Task, error) {
	var task domain.Task
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		var err error
		task, err = loadTask(txn, id)
		if err != nil {
			return err
		}
		if err := mutate(&task); err != nil {
			return err
		}
		if task.AssignedTo != "" {
			if _, err := updateUserTxn(txn, task.AssignedTo, func(user *domain.User) error {
				user.Credits += task.Credits
				user.CompletedTasks++
				return nil
			}); err != nil {
				return err
			}
		}
		return setJSON(txn, taskPrefix+id, task)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func loadTask(txn *badger.Txn, id string) (domain.Task, error) {
	var task domain.Task
	if err := getJSON(txn, taskPrefix+id, &task); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.Task{}, fmt.Errorf("%w: %s", cerrors.ErrTaskNotFound, id)
		}
		return domain.Task{}, err
	}
	return task, nil
}
