package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/sciforge/chemlab/internal/model"
)

// Saver persists an experiment record. Implemented by the storage layer.
type Saver interface {
	SaveSession(ctx context.Context, exp model.Experiment) error
}

// AutoSaver periodically persists every active session to the experiment
// store. Failures are logged and swallowed: auto-save is opportunistic, a
// missed tick costs nothing and the next tick retries from scratch.
type AutoSaver struct {
	manager  *Manager
	saver    Saver
	interval time.Duration
	logger   *slog.Logger
}

// DefaultAutoSaveInterval matches the lab's historical auto-save period.
const DefaultAutoSaveInterval = 60 * time.Second

// NewAutoSaver creates an auto-saver. A non-positive interval falls back to
// the default.
func NewAutoSaver(manager *Manager, saver Saver, interval time.Duration, logger *slog.Logger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &AutoSaver{manager: manager, saver: saver, interval: interval, logger: logger}
}

// Run blocks, saving active sessions on every tick until ctx is cancelled.
func (a *AutoSaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.saveAll(ctx)
		}
	}
}

func (a *AutoSaver) saveAll(ctx context.Context) {
	for _, s := range a.manager.ActiveSessions() {
		record, err := s.SaveRecord()
		if err != nil {
			continue // session went idle between listing and saving
		}
		if err := a.saver.SaveSession(ctx, record); err != nil {
			a.logger.Warn("autosave: save failed",
				"user_id", record.UserID,
				"experiment_name", record.Name,
				"error", err)
			continue
		}
		a.logger.Debug("autosave: session saved",
			"user_id", record.UserID,
			"score", record.Score)
	}
}
