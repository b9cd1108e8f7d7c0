//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/dgraph-io/badger/v4"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"strings"
)

const (
	userPrefix      = "user:"
	userEmailPrefix = "user_email:"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUserByEmail(email string) (domain.User, error)
	GetUserByID(id string) (domain.User, error)
	UpdateUser(id string, mutate func(user *domain.User) error) (domain.User, error)
	ListUsers() ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists the user under "user:{id}" and reserves its email
// under "user_email:{email}". Emails are compared case-insensitively.
func (u *UserRepository) CreateUser(user domain.User) error {
	emailKey := []byte(userEmailPrefix + normalizeEmail(user.Email))
	return updateWithRetry(u.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey); err == nil {
			return cerrors.ErrUserAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return err
		}
		return setJSON(txn, userPrefix+user.ID, user)
	})
}

func (u *UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailPrefix + normalizeEmail(email)))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userPrefix+string(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, cerrors.ErrUserNotFound
	}
	return user, err
}

func (u *UserRepository) GetUserByID(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userPrefix+id, &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, fmt.Errorf("%w: %s", cerrors.ErrUserNotFound, id)
	}
	return user, err
}

// UpdateUser applies mutate to the stored user in one transaction.
// The email reservation is left untouched, mutate must not change it.
func (u *UserRepository) UpdateUser(id string, mutate func(user *domain.User) error) (domain.User, error) {
	var user domain.User
	err := updateWithRetry(u.db, func(txn *badger.Txn) error {
		var err error
		user, err = updateUserTxn(txn, id, mutate)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user domain.User
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

// updateUserTxn is the read-modify-write of one user inside txn, so that
// task and credit changes commit together.
func updateUserTxn(txn *badger.Txn, id string, mutate func(user *domain.User) error) (domain.User, error) {
	var user domain.User
	if err := getJSON(txn, userPrefix+id, &user); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.User{}, fmt.Errorf("%w: %s", cerrors.ErrUserNotFound, id)
		}
		return domain.User{}, err
	}
	if err := mutate(&user); err != nil {
		return domain.User{}, err
	}
	return user, setJSON(txn, userPrefix+id, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
