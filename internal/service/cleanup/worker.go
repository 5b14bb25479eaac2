package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweeper evicts stale sessions from memory.
type SessionSweeper interface {
	CleanupOldSessions(ctx context.Context, idleTTL, finishedTTL time.Duration) int
}

type Worker struct {
	sessions    SessionSweeper
	idleTTL     time.Duration
	finishedTTL time.Duration
	cron        *cron.Cron
	logger      *zap.Logger
}

// NewWorker schedules the sweep with a standard cron spec or a descriptor
// such as "@hourly" or "@every 10m".
func NewWorker(sessions SessionSweeper, schedule string, idleTTL, finishedTTL time.Duration, logger *zap.Logger) (*Worker, error) {
	w := &Worker{
		sessions:    sessions,
		idleTTL:     idleTTL,
		finishedTTL: finishedTTL,
		cron:        cron.New(),
		logger:      logger,
	}

	if _, err := w.cron.AddFunc(schedule, w.RunCleanup); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start runs the scheduler in its own goroutine.
func (w *Worker) Start() {
	w.cron.Start()
	w.logger.Info("background worker started", zap.Int("jobs", len(w.cron.Entries())))
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (w *Worker) Stop(ctx context.Context) {
	select {
	case <-w.cron.Stop().Done():
	case <-ctx.Done():
	}
	w.logger.Info("background worker stopped")
}

// RunCleanup executes one sweep.
func (w *Worker) RunCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed := w.sessions.CleanupOldSessions(ctx, w.idleTTL, w.finishedTTL)
	w.logger.Info("scheduled cleanup finished", zap.Int("removed", removed))
}
