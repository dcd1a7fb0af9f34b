package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of background work run on a cron schedule.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Manager owns the scheduler and the context handed to running jobs.
type Manager struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules job. Overlapping runs of the same job are skipped.
func (m *Manager) Register(job Job) error {
	if _, err := m.cron.AddFunc(job.Spec, func() { m.run(job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name, err)
	}
	slog.Info("cron job registered", "job", job.Name, "spec", job.Spec)
	return nil
}

func (m *Manager) Start() {
	m.cron.Start()
	slog.Info("cron jobs started", "count", len(m.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (m *Manager) Stop() {
	m.cancel()
	<-m.cron.Stop().Done()
	slog.Info("cron jobs stopped")
}

func (m *Manager) run(job Job) {
	ctx := m.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		slog.Error("cron job failed", "task", job.Name, "error", err, "latency_ms", time.Since(start).Milliseconds())
		return
	}
	slog.Debug("cron job completed", "job", job.Name, "duration", time.Since(start).String())
}
