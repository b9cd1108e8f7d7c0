package workers

import (
	"context"
	"fmt"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"log/slog"
	"skillsync/domain"
	"skillsync/domain/event"
	"skillsync/mocks"
	"skillsync/observability"
	"testing"
	"time"
)

func TestMessageIndexer_Indexes_Until_Channel_Closed(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	index := mocks.NewMockIMessageIndex(gomock.NewController(t))
	monitoring := observability.NewMonitoringManager(log)
	persisted := make(chan event.MessagePersisted, 3)

	first := domain.NewMessage("alice", "hello", time.Now())
	second := domain.NewMessage("bob", "broken", time.Now())
	third := domain.NewMessage("bob", "bye", time.Now())

	// Given the second document is rejected by the index
	gomock.InOrder(
		index.EXPECT().Index("c1", first).Return(nil),
		index.EXPECT().Index("c1", second).Return(fmt.Errorf("disk full")),
		index.EXPECT().Index("c1", third).Return(nil),
	)
	persisted <- event.MessagePersisted{ConversationID: "c1", Message: first}
	persisted <- event.MessagePersisted{ConversationID: "c1", Message: second}
	persisted <- event.MessagePersisted{ConversationID: "c1", Message: third}
	close(persisted)

	// When the indexer drains the queue
	err := NewMessageIndexer(log, index, persisted, monitoring).Run(context.Background())

	// Then the failure is counted and the following messages are still indexed
	req.NoError(err)
	stats := monitoring.GetLatest(0)
	req.Equal(uint64(2), stats.IndexedMessages)
	req.Equal(uint64(1), stats.IndexDropped)
}

func TestMessageIndexer_Stops_On_Context_Done(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	index := mocks.NewMockIMessageIndex(gomock.NewController(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMessageIndexer(log, index, make(chan event.MessagePersisted), observability.NewMonitoringManager(log)).Run(ctx)

	req.ErrorIs(err, context.Canceled)
}
