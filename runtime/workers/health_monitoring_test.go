package workers

import (
	"context"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
	"skillsync/domain/event"
	"skillsync/observability"
	"testing"
	"time"
)

func TestHealthMonitoringWorker_Samples_Own_Process(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewHealthMonitoringWorker(log, monitoring, int32(os.Getpid()), 10*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Then a sample of the test process is stored
	req.Eventually(func() bool {
		p := monitoring.GetLatest(0).Process
		return !p.SampledAt.IsZero() && p.RssMb > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	req.NoError(<-done)
}

func TestChannelCapacityWorker_Records_Queue_Fill(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	persisted := make(chan event.MessagePersisted, 4)
	persisted <- event.MessagePersisted{ConversationID: "c1"}

	worker := NewChannelCapacityWorker(log, []NamedChannel{
		{Name: "persisted", Channel: persisted},
		{Name: "not-a-channel", Channel: 42},
	}, monitoring, time.Hour)

	worker.sample()

	queues := monitoring.GetLatest(0).Queues
	req.Equal(observability.QueueStats{Length: 1, Capacity: 4}, queues["persisted"])
	req.NotContains(queues, "not-a-channel")
}
