package workers

import (
	"context"
	"fmt"
	"log/slog"
	"skillsync/observability"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker samples RSS and CPU of a process on every tick
// and stores the result on the monitoring manager.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	monitoring     *observability.MonitoringManager
	pid            int32
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(
	log *slog.Logger,
	monitoring *observability.MonitoringManager,
	pid int32,
	metricInterval time.Duration,
) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		monitoring:     monitoring,
		pid:            pid,
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return fmt.Errorf("retrieve process %d: %w", w.pid, err)
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping process sampling")
			return nil
		case <-ticker.C:
			stats, err := sample(p)
			if err != nil {
				w.log.Error("Error while sampling process", "pid", w.pid, "err", err)
				continue
			}
			w.monitoring.UpdateProcess(stats)
		}
	}
}

func sample(p *process.Process) (observability.ProcessStats, error) {
	cpu, err := p.CPUPercent()
	if err != nil {
		return observability.ProcessStats{}, fmt.Errorf("cpu usage: %w", err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return observability.ProcessStats{}, fmt.Errorf("ram usage: %w", err)
	}
	return observability.ProcessStats{
		RssMb:      mem.RSS / 1024 / 1024,
		CpuPercent: cpu,
		SampledAt:  time.Now().UTC(),
	}, nil
}
