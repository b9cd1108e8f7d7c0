//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"log/slog"
	"skillsync/domain"
	"skillsync/domain/event"
	"skillsync/domain/search"
	"skillsync/errors"
	"skillsync/moderation"
	"skillsync/observability"
	"skillsync/repositories"
	"time"
)

type IConversationService interface {
	ListConversations(ctx context.Context, userID string) ([]ConversationView, error)
	CreateConversation(ctx context.Context, callerID, otherUserID string, taskID *string) (ConversationView, bool, error)
	GetMessages(ctx context.Context, callerID, conversationID string) ([]domain.Message, error)
	SendMessage(ctx context.Context, callerID, conversationID, content string) (domain.Message, error)
	MarkAsRead(ctx context.Context, callerID, conversationID string) error
	SearchMessages(ctx context.Context, callerID, rawQuery string) ([]search.Hit, error)
}

// UserProfile is the public part of a participant.
type UserProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
}

// ConversationView is a conversation as seen by one of its participants.
type ConversationView struct {
	domain.Conversation
	Users       []UserProfile `json:"users"`
	UnreadCount int           `json:"unreadCount"`
}

type ConversationService struct {
	log           *slog.Logger
	conversations repositories.IConversationRepository
	users         repositories.IUserRepository
	tasks         repositories.ITaskRepository
	index         repositories.IMessageIndex
	policy        moderation.Policy
	monitoring    *observability.MonitoringManager
	persisted     chan<- event.MessagePersisted
	now           func() time.Time
}

func NewConversationService(log *slog.Logger,
	conversations repositories.IConversationRepository,
	users repositories.IUserRepository,
	tasks repositories.ITaskRepository,
	index repositories.IMessageIndex,
	policy moderation.Policy,
	monitoring *observability.MonitoringManager,
	persisted chan<- event.MessagePersisted) *ConversationService {
	return &ConversationService{
		log:           log,
		conversations: conversations,
		users:         users,
		tasks:         tasks,
		index:         index,
		policy:        policy,
		monitoring:    monitoring,
		persisted:     persisted,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListConversations is a pure read, most recently updated first.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]ConversationView, error) {
	conversations, err := s.conversations.ListByParticipant(userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations of %s: %w", userID, err)
	}
	profiles := make(map[string]UserProfile)
	return lo.Map(conversations, func(c domain.Conversation, _ int) ConversationView {
		return s.toView(c, userID, profiles)
	}), nil
}

// CreateConversation returns the conversation of the unordered pair and task,
// creating it when absent. The boolean reports a creation.
func (s *ConversationService) CreateConversation(ctx context.Context, callerID, otherUserID string, taskID *string) (ConversationView, bool, error) {
	if otherUserID == "" {
		return ConversationView{}, false, fmt.Errorf("%w: userId is required", errors.ErrInvalidRequest)
	}
	if otherUserID == callerID {
		return ConversationView{}, false, fmt.Errorf("%w: cannot open a conversation with yourself", errors.ErrInvalidRequest)
	}
	if _, err := s.users.GetUserByID(otherUserID); err != nil {
		return ConversationView{}, false, err
	}
	if taskID != nil && *taskID == "" {
		taskID = nil
	}
	if taskID != nil {
		if _, err := s.tasks.GetTask(*taskID); err != nil {
			return ConversationView{}, false, err
		}
	}

	candidate := domain.NewConversation(uuid.NewString(), []string{callerID, otherUserID}, taskID, s.now())
	conversation, created, err := s.conversations.FindOrCreate(candidate)
	if err != nil {
		return ConversationView{}, false, fmt.Errorf("create conversation: %w", err)
	}
	if created {
		s.log.Info("Conversation created", "conversation_id", conversation.ID, "caller", callerID, "other", otherUserID)
	}
	return s.toView(conversation, callerID, make(map[string]UserProfile)), created, nil
}

// GetMessages marks every message of the other participant as read and
// returns the whole sequence in insertion order.
func (s *ConversationService) GetMessages(ctx context.Context, callerID, conversationID string) ([]domain.Message, error) {
	conversation, err := s.markRead(callerID, conversationID)
	if err != nil {
		return nil, err
	}
	return conversation.Messages, nil
}

func (s *ConversationService) MarkAsRead(ctx context.Context, callerID, conversationID string) error {
	_, err := s.markRead(callerID, conversationID)
	return err
}

// SendMessage validates and sanitizes content, then appends it.
// Membership is checked inside the storage transaction that appends.
func (s *ConversationService) SendMessage(ctx context.Context, callerID, conversationID, content string) (domain.Message, error) {
	result, err := s.policy.Apply(content)
	if err != nil {
		return domain.Message{}, err
	}
	message := domain.NewMessage(callerID, result.Content, s.now())
	message.Lang = result.Lang

	_, err = s.conversations.Update(conversationID, func(c *domain.Conversation) error {
		if !c.HasParticipant(callerID) {
			return errors.ErrNotParticipant
		}
		c.Append(message)
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}

	s.monitoring.IncrPersisted()
	if len(result.Censored) > 0 {
		s.log.Info("Message censored", "conversation_id", conversationID, "sender", callerID, "words", len(result.Censored))
	}
	s.publish(conversationID, message)
	return message, nil
}

// SearchMessages looks up the caller's own conversations only.
func (s *ConversationService) SearchMessages(ctx context.Context, callerID, rawQuery string) ([]search.Hit, error) {
	query := search.NewSearchQuery(rawQuery)
	if query.IsEmpty() {
		return nil, errors.ErrEmptyQuery
	}
	conversations, err := s.conversations.ListByParticipant(callerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations of %s: %w", callerID, err)
	}
	ids := lo.Map(conversations, func(c domain.Conversation, _ int) string { return c.ID })
	hits, err := s.index.Search(ctx, *query, ids)
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return hits, nil
}

func (s *ConversationService) markRead(callerID, conversationID string) (domain.Conversation, error) {
	var flipped int
	conversation, err := s.conversations.Update(conversationID, func(c *domain.Conversation) error {
		if !c.HasParticipant(callerID) {
			return errors.ErrNotParticipant
		}
		if flipped = c.MarkReadBy(callerID); flipped == 0 {
			return repositories.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if flipped > 0 {
		s.log.Debug("Messages marked as read", "conversation_id", conversationID, "reader", callerID, "count", flipped)
	}
	return conversation, nil
}

// publish hands the message to the indexer without blocking the request.
func (s *ConversationService) publish(conversationID string, message domain.Message) {
	if s.persisted == nil {
		return
	}
	select {
	case s.persisted <- event.MessagePersisted{ConversationID: conversationID, Message: message}:
	default:
		s.monitoring.IncrIndexDropped()
		s.log.Warn("Index queue full, message not indexed", "message_id", message.ID)
	}
}

func (s *ConversationService) toView(c domain.Conversation, viewerID string, profiles map[string]UserProfile) ConversationView {
	users := make([]UserProfile, 0, len(c.Participants))
	for _, id := range c.Participants {
		profile, ok := profiles[id]
		if !ok {
			user, err := s.users.GetUserByID(id)
			if err != nil {
				s.log.Debug("Participant profile unavailable", "user_id", id, "error", err)
				profile = UserProfile{ID: id}
			} else {
				profile = toProfile(user)
			}
			profiles[id] = profile
		}
		users = append(users, profile)
	}
	return ConversationView{
		Conversation: c,
		Users:        users,
		UnreadCount:  c.UnreadCountFor(viewerID),
	}
}
