//go:generate go run go.uber.org/mock/mockgen -source=message_index.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"github.com/blugelabs/bluge"
	"log/slog"
	"skillsync/domain"
	"skillsync/domain/search"
	"time"
)

const (
	fieldConversation = "conversation"
	fieldSender       = "sender"
	fieldContent      = "content"
	fieldTimestamp    = "timestamp"
)

type IMessageIndex interface {
	Index(conversationID string, message domain.Message) error
	Search(ctx context.Context, query search.Query, conversationIDs []string) ([]search.Hit, error)
}

// MessageIndex is the full-text index of persisted messages.
// Badger stays the source of truth, the index can be rebuilt from it.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds or replaces the document of a message, keyed by message id.
func (m *MessageIndex) Index(conversationID string, message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldConversation, conversationID).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, message.SenderID).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewStoredOnlyField(fieldTimestamp, []byte(message.CreatedAt.UTC().Format(time.RFC3339Nano))))

	if err := m.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

// Search matches query terms against message content, restricted to conversationIDs.
// No conversation means no result.
func (m *MessageIndex) Search(ctx context.Context, query search.Query, conversationIDs []string) ([]search.Hit, error) {
	if len(conversationIDs) == 0 || query.IsEmpty() {
		return nil, nil
	}

	scope := bluge.NewBooleanQuery().SetMinShould(1)
	for _, id := range conversationIDs {
		scope.AddShould(bluge.NewTermQuery(id).SetField(fieldConversation))
	}
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldContent)).
		AddMust(scope)
	if query.SenderID != "" {
		q.AddMust(bluge.NewTermQuery(query.SenderID).SetField(fieldSender))
	}

	reader, err := m.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Cannot close index reader", "error", err)
		}
	}()

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, q))
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	var hits []search.Hit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := search.Hit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case fieldConversation:
				hit.ConversationID = string(value)
			case fieldSender:
				hit.SenderID = string(value)
			case fieldContent:
				hit.Content = string(value)
			case fieldTimestamp:
				hit.CreatedAt, _ = time.Parse(time.RFC3339Nano, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, fmt.Errorf("read stored fields: %w", visitErr)
		}
		hits = append(hits, hit)
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return hits, nil
}
