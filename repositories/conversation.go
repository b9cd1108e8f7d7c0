//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"errors"
	"fmt"
	"github.com/dgraph-io/badger/v4"
	"log/slog"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"slices"
	"strings"
)

const (
	conversationPrefix = "conv:"
	pairPrefix         = "conv_pair:"
	memberPrefix       = "conv_member:"
)

// ErrNoChange can be returned by an Update mutation to keep the stored document as is.
var ErrNoChange = errors.New("no change")

type IConversationRepository interface {
	FindOrCreate(candidate domain.Conversation) (domain.Conversation, bool, error)
	GetConversation(id string) (domain.Conversation, error)
	ListByParticipant(userID string) ([]domain.Conversation, error)
	Update(id string, mutate func(conversation *domain.Conversation) error) (domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

// FindOrCreate returns the conversation already stored for the candidate's
// participant pair and task, or persists the candidate.
// The boolean reports whether the candidate was created.
// Keys written on creation:
//   - "conv:{id}" holds the JSON document
//   - "conv_pair:{a|b:task}" points to the id and makes creation idempotent
//   - "conv_member:{user}:{id}" indexes the conversation by participant
func (r *ConversationRepository) FindOrCreate(candidate domain.Conversation) (domain.Conversation, bool, error) {
	if len(candidate.Participants) != 2 {
		return domain.Conversation{}, false, fmt.Errorf("%w: a conversation has exactly two participants", cerrors.ErrInvalidRequest)
	}
	pairKey := pairPrefix + domain.PairKey(candidate.Participants[0], candidate.Participants[1], candidate.TaskID)

	var result domain.Conversation
	var created bool
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		created = false
		item, err := txn.Get([]byte(pairKey))
		switch {
		case err == nil:
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			return getJSON(txn, conversationPrefix+string(id), &result)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if err := txn.Set([]byte(pairKey), []byte(candidate.ID)); err != nil {
			return err
		}
		if err := setJSON(txn, conversationPrefix+candidate.ID, candidate); err != nil {
			return err
		}
		for _, participant := range candidate.Participants {
			if err := txn.Set([]byte(memberKey(participant, candidate.ID)), nil); err != nil {
				return err
			}
		}
		result, created = candidate, true
		return nil
	})
	if err != nil {
		return domain.Conversation{}, false, err
	}
	if created {
		r.log.Debug("Conversation created", "conversation_id", result.ID)
	}
	return result, created, nil
}

func (r *ConversationRepository) GetConversation(id string) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, conversationPrefix+id, &conversation)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, fmt.Errorf("%w: %s", cerrors.ErrConversationNotFound, id)
	}
	return conversation, err
}

// ListByParticipant scans "conv_member:{user}:" and loads each conversation,
// most recently updated first.
func (r *ConversationRepository) ListByParticipant(userID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(memberKey(userID, ""))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		for _, id := range ids {
			var conversation domain.Conversation
			if err := getJSON(txn, conversationPrefix+id, &conversation); err != nil {
				return fmt.Errorf("load conversation %s: %w", id, err)
			}
			conversations = append(conversations, conversation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(conversations, func(a, b domain.Conversation) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return conversations, nil
}

// Update applies mutate to the stored conversation and writes it back in the
// same transaction. An error from mutate aborts the write, ErrNoChange skips it
// and still returns the conversation.
func (r *ConversationRepository) Update(id string, mutate func(conversation *domain.Conversation) error) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		conversation = domain.Conversation{}
		if err := getJSON(txn, conversationPrefix+id, &conversation); err != nil {
			return err
		}
		if err := mutate(&conversation); err != nil {
			if errors.Is(err, ErrNoChange) {
				return nil
			}
			return err
		}
		return setJSON(txn, conversationPrefix+id, conversation)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, fmt.Errorf("%w: %s", cerrors.ErrConversationNotFound, id)
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

func memberKey(userID, conversationID string) string {
	return memberPrefix + userID + ":" + conversationID
}
