package workers

import (
	"context"
	"fmt"
	"log/slog"
	"skillsync/contract"
	"skillsync/errors"
	"skillsync/observability"
	"sync"
	"time"
)

const (
	DefaultRestartDelay = 200 * time.Millisecond
	maxRestartDelay     = 30 * time.Second
	// A run lasting longer than stableRunFactor delays is not part of a crash loop.
	stableRunFactor = 10
)

// Supervisor keeps the background workers of the chat server alive.
// A worker returning nil is done, an error or a panic restarts it after a
// delay that doubles while it keeps crashing. Every restart is recorded in
// the monitoring snapshot under the worker name.
type Supervisor struct {
	log          *slog.Logger
	monitoring   *observability.MonitoringManager
	restartDelay time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	workers []contract.Worker
}

func NewSupervisor(log *slog.Logger, monitoring *observability.MonitoringManager, restartDelay time.Duration) *Supervisor {
	if restartDelay <= 0 {
		restartDelay = DefaultRestartDelay
	}
	return &Supervisor{log: log, monitoring: monitoring, restartDelay: restartDelay}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every added worker and blocks until all of them returned.
// Stop cancels the workers without touching ctx.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// Start supervises one worker in its own goroutine.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.supervise(ctx, contract.GetWorkerName(worker), worker)
	}()
}

func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Supervisor) supervise(ctx context.Context, name string, worker contract.Worker) {
	delay := s.restartDelay
	for ctx.Err() == nil {
		startedAt := time.Now()
		panicked, err := runOnce(ctx, worker)
		switch {
		case err == nil:
			s.log.Info("Worker finished", "name", name)
			return
		case ctx.Err() != nil:
			s.log.Info("Worker stopped", "name", name)
			return
		}

		if time.Since(startedAt) > stableRunFactor*s.restartDelay {
			delay = s.restartDelay
		}
		s.monitoring.RecordWorkerRestart(name, err, panicked)
		s.log.Warn("Worker crashed, restarting", "name", name, "error", err, "panicked", panicked, "delay", delay)

		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
		delay = min(2*delay, maxRestartDelay)
	}
	s.log.Info("Worker stopped", "name", name)
}

// runOnce turns a panic of worker into errors.ErrWorkerPanic.
func runOnce(ctx context.Context, worker contract.Worker) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked, err = true, fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return false, worker.Run(ctx)
}
