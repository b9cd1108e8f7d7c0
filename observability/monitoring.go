package observability

import (
	"log/slog"
	"maps"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ProcessStats is the latest self sample of the server process.
type ProcessStats struct {
	RssMb      uint64    `json:"rss_mb"`
	CpuPercent float64   `json:"cpu_percent"`
	SampledAt  time.Time `json:"sampled_at"`
}

// QueueStats is the sampled fill level of an internal channel.
type QueueStats struct {
	Length   int `json:"length"`
	Capacity int `json:"capacity"`
}

// WorkerStats counts the restarts of one supervised worker.
type WorkerStats struct {
	Restarts      uint64    `json:"restarts"`
	Panics        uint64    `json:"panics"`
	LastError     string    `json:"last_error,omitempty"`
	LastRestartAt time.Time `json:"last_restart_at"`
}

// MonitoringStats aggregates every counter exposed on the health endpoint.
type MonitoringStats struct {
	OnlineUsers       int    `json:"online_users"`
	OpenConnections   int64  `json:"open_connections"`
	RelayedEvents     uint64 `json:"relayed_events"`
	DroppedEvents     uint64 `json:"dropped_events"`
	PersistedMessages uint64 `json:"persisted_messages"`
	IndexedMessages   uint64 `json:"indexed_messages"`
	IndexDropped      uint64 `json:"index_dropped"`

	AllocMemMb uint64                 `json:"alloc_mem_mb"`
	NumGC      uint32                 `json:"num_gc"`
	Goroutines int                    `json:"goroutines"`
	Process    ProcessStats           `json:"process"`
	Queues     map[string]QueueStats  `json:"queues,omitempty"`
	Workers    map[string]WorkerStats `json:"workers,omitempty"`
}

// MonitoringManager holds realtime telemetry of the chat server.
// Counters are atomics, samples and worker stats are guarded by mu.
type MonitoringManager struct {
	log *slog.Logger
	mu  sync.RWMutex

	openConnections   int64
	relayedEvents     uint64
	droppedEvents     uint64
	persistedMessages uint64
	indexedMessages   uint64
	indexDropped      uint64
	process           ProcessStats
	queues            map[string]QueueStats
	workers           map[string]WorkerStats
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:     log,
		queues:  make(map[string]QueueStats),
		workers: make(map[string]WorkerStats),
	}
}

func (mm *MonitoringManager) ConnectionOpened() { atomic.AddInt64(&mm.openConnections, 1) }

func (mm *MonitoringManager) ConnectionClosed() { atomic.AddInt64(&mm.openConnections, -1) }

// IncrRelayed counts one frame delivered to a recipient sink.
func (mm *MonitoringManager) IncrRelayed() { atomic.AddUint64(&mm.relayedEvents, 1) }

// IncrDropped counts one inbound frame discarded by the gateway.
func (mm *MonitoringManager) IncrDropped() { atomic.AddUint64(&mm.droppedEvents, 1) }

func (mm *MonitoringManager) IncrPersisted() { atomic.AddUint64(&mm.persistedMessages, 1) }

func (mm *MonitoringManager) IncrIndexed() { atomic.AddUint64(&mm.indexedMessages, 1) }

func (mm *MonitoringManager) IncrIndexDropped() { atomic.AddUint64(&mm.indexDropped, 1) }

// UpdateProcess stores the latest process sample.
func (mm *MonitoringManager) UpdateProcess(stats ProcessStats) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.process = stats
	mm.log.Debug("Process stats updated", "rss_mb", stats.RssMb, "cpu", stats.CpuPercent)
}

func (mm *MonitoringManager) UpdateQueue(name string, stats QueueStats) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queues[name] = stats
}

// RecordWorkerRestart counts one crash of the named worker before its restart.
func (mm *MonitoringManager) RecordWorkerRestart(name string, err error, panicked bool) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	stats := mm.workers[name]
	stats.Restarts++
	if panicked {
		stats.Panics++
	}
	if err != nil {
		stats.LastError = err.Error()
	}
	stats.LastRestartAt = time.Now().UTC()
	mm.workers[name] = stats
}

// GetLatest returns a snapshot, onlineUsers is supplied by the registry owner.
func (mm *MonitoringManager) GetLatest(onlineUsers int) MonitoringStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	process := mm.process
	queues := maps.Clone(mm.queues)
	workers := maps.Clone(mm.workers)
	mm.mu.RUnlock()

	return MonitoringStats{
		OnlineUsers:       onlineUsers,
		OpenConnections:   atomic.LoadInt64(&mm.openConnections),
		RelayedEvents:     atomic.LoadUint64(&mm.relayedEvents),
		DroppedEvents:     atomic.LoadUint64(&mm.droppedEvents),
		PersistedMessages: atomic.LoadUint64(&mm.persistedMessages),
		IndexedMessages:   atomic.LoadUint64(&mm.indexedMessages),
		IndexDropped:      atomic.LoadUint64(&mm.indexDropped),
		AllocMemMb:        m.Alloc / 1024 / 1024,
		NumGC:             m.NumGC,
		Goroutines:        runtime.NumGoroutine(),
		Process:           process,
		Queues:            queues,
		Workers:           workers,
	}
}
