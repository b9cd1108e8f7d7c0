package repositories

import (
	"fmt"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"log/slog"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"sync"
	"testing"
	"time"
)

func openBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newCandidate(a, b string, taskID *string) domain.Conversation {
	return domain.NewConversation(uuid.NewString(), []string{a, b}, taskID, time.Now().UTC())
}

func TestConversationRepository_FindOrCreate_Is_Idempotent_Per_Pair(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given alice created a conversation with bob
	first, created, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)
	req.True(created)

	// When bob asks for the same pair the other way round
	second, created, err := repo.FindOrCreate(newCandidate("bob", "alice", nil))

	// Then the existing conversation is returned
	req.NoError(err)
	req.False(created)
	req.Equal(first.ID, second.ID)

	// And an empty task id resolves like no task
	third, created, err := repo.FindOrCreate(newCandidate("alice", "bob", lo.ToPtr("")))
	req.NoError(err)
	req.False(created)
	req.Equal(first.ID, third.ID)
}

func TestConversationRepository_FindOrCreate_Task_Scopes_The_Pair(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))

	plain, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)

	// When the same pair talks about a task
	withTask, created, err := repo.FindOrCreate(newCandidate("alice", "bob", lo.ToPtr("task-1")))

	// Then a distinct conversation exists
	req.NoError(err)
	req.True(created)
	req.NotEqual(plain.ID, withTask.ID)
	req.Equal("task-1", *withTask.TaskID)

	again, created, err := repo.FindOrCreate(newCandidate("bob", "alice", lo.ToPtr("task-1")))
	req.NoError(err)
	req.False(created)
	req.Equal(withTask.ID, again.ID)
}

func TestConversationRepository_FindOrCreate_Requires_Two_Participants(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	candidate := domain.NewConversation(uuid.NewString(), []string{"alice"}, nil, time.Now())

	_, _, err := repo.FindOrCreate(candidate)

	req.ErrorIs(err, cerrors.ErrInvalidRequest)
}

func TestConversationRepository_FindOrCreate_Concurrent(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	var wg sync.WaitGroup
	ids := make([]string, 10)
	errs := make([]error, 10)

	// When both users race to open the same conversation
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conversation, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
			ids[i], errs[i] = conversation.ID, err
		}(i)
	}
	wg.Wait()

	// Then everyone got the same conversation
	for _, err := range errs {
		req.NoError(err)
	}
	req.Len(lo.Uniq(ids), 1)
	list, err := repo.ListByParticipant("alice")
	req.NoError(err)
	req.Len(list, 1)
}

func TestConversationRepository_GetConversation_Not_Found(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))

	_, err := repo.GetConversation("missing")

	req.ErrorIs(err, cerrors.ErrConversationNotFound)
}

func TestConversationRepository_Update(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	conversation, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)
	at := time.Now().UTC().Add(time.Minute)

	// When two messages are appended
	for i := 1; i <= 2; i++ {
		_, err = repo.Update(conversation.ID, func(c *domain.Conversation) error {
			c.Append(domain.NewMessage("alice", fmt.Sprintf("m%d", i), at))
			return nil
		})
		req.NoError(err)
	}

	// Then they are stored in insertion order
	stored, err := repo.GetConversation(conversation.ID)
	req.NoError(err)
	req.Len(stored.Messages, 2)
	req.Equal("m1", stored.Messages[0].Content)
	req.Equal("m2", stored.Messages[1].Content)
	req.Equal("m2", stored.LastMessage.Content)
}

func TestConversationRepository_Update_Concurrent_Appends(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	conversation, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)
	var wg sync.WaitGroup
	errs := make([]error, 4)

	// When both users append at the same time
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sender := lo.Ternary(i%2 == 0, "alice", "bob")
			_, errs[i] = repo.Update(conversation.ID, func(c *domain.Conversation) error {
				c.Append(domain.NewMessage(sender, fmt.Sprintf("m%d", i), time.Now().UTC()))
				return nil
			})
		}(i)
	}
	wg.Wait()

	// Then no append is lost
	for _, err := range errs {
		req.NoError(err)
	}
	stored, err := repo.GetConversation(conversation.ID)
	req.NoError(err)
	req.Len(stored.Messages, len(errs))
}

func TestConversationRepository_Update_Aborts_On_Mutation_Error(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	conversation, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)

	// When the mutation fails after touching the document
	_, err = repo.Update(conversation.ID, func(c *domain.Conversation) error {
		c.Append(domain.NewMessage("alice", "lost", time.Now()))
		return cerrors.ErrNotParticipant
	})

	// Then nothing is written
	req.ErrorIs(err, cerrors.ErrNotParticipant)
	stored, err := repo.GetConversation(conversation.ID)
	req.NoError(err)
	req.Empty(stored.Messages)
	req.Nil(stored.LastMessage)
}

func TestConversationRepository_Update_Not_Found(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))

	_, err := repo.Update("missing", func(c *domain.Conversation) error { return nil })

	req.ErrorIs(err, cerrors.ErrConversationNotFound)
}

func TestConversationRepository_ListByParticipant_Most_Recent_First(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	withBob, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)
	withCarol, _, err := repo.FindOrCreate(newCandidate("carol", "alice", nil))
	req.NoError(err)
	_, _, err = repo.FindOrCreate(newCandidate("bob", "carol", nil))
	req.NoError(err)

	// When the older conversation receives a message
	_, err = repo.Update(withBob.ID, func(c *domain.Conversation) error {
		c.Append(domain.NewMessage("bob", "hi", time.Now().UTC().Add(time.Hour)))
		return nil
	})
	req.NoError(err)

	// Then it is listed first, and unrelated conversations are excluded
	list, err := repo.ListByParticipant("alice")
	req.NoError(err)
	req.Equal([]string{withBob.ID, withCarol.ID}, lo.Map(list, func(c domain.Conversation, _ int) string { return c.ID }))

	empty, err := repo.ListByParticipant("dave")
	req.NoError(err)
	req.Empty(empty)
}

func TestConversationRepository_Update_No_Change(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openBadger(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	conversation, _, err := repo.FindOrCreate(newCandidate("alice", "bob", nil))
	req.NoError(err)

	// When the mutation reports nothing to write
	updated, err := repo.Update(conversation.ID, func(c *domain.Conversation) error {
		c.Participants = nil
		return ErrNoChange
	})

	// Then the call succeeds and the stored document is untouched
	req.NoError(err)
	req.Equal(conversation.ID, updated.ID)
	stored, err := repo.GetConversation(conversation.ID)
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, stored.Participants)
}
