package workers

import (
	"context"
	"log/slog"
	"skillsync/contract"
	"skillsync/domain/event"
	"skillsync/observability"
	"skillsync/repositories"
)

var _ contract.Worker = (*MessageIndexer)(nil)

// MessageIndexer feeds the full-text index with persisted messages.
// Indexing is best effort, a failed document is counted and skipped.
type MessageIndexer struct {
	log        *slog.Logger
	index      repositories.IMessageIndex
	persisted  <-chan event.MessagePersisted
	monitoring *observability.MonitoringManager
}

func NewMessageIndexer(log *slog.Logger, index repositories.IMessageIndex,
	persisted <-chan event.MessagePersisted, monitoring *observability.MonitoringManager) *MessageIndexer {
	return &MessageIndexer{log: log, index: index, persisted: persisted, monitoring: monitoring}
}

func (w *MessageIndexer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case evt, ok := <-w.persisted:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if err := w.index.Index(evt.ConversationID, evt.Message); err != nil {
				w.monitoring.IncrIndexDropped()
				w.log.Warn("Cannot index message",
					"conversation_id", evt.ConversationID,
					"message_id", evt.Message.ID,
					"error", err)
				continue
			}
			w.monitoring.IncrIndexed()
		}
	}
}
