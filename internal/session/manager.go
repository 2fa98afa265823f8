package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/sciforge/chemlab/internal/engine"
	"github.com/sciforge/chemlab/internal/model"
)

// Manager owns the per-user session registry. Sessions are created on first
// access and rehydrated from the local snapshot store when one exists.
type Manager struct {
	eng       *engine.Engine
	snapshots *SnapshotStore
	publisher Publisher
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. snapshots and publisher may be nil
// to disable local snapshotting and event publishing respectively.
func NewManager(eng *engine.Engine, snapshots *SnapshotStore, publisher Publisher, logger *slog.Logger) *Manager {
	return &Manager{
		eng:       eng,
		snapshots: snapshots,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for a user, creating it if needed.
func (m *Manager) Session(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}

	s := newSession(userID, m.eng, m.snapshots, m.publisher, m.logger)
	if m.snapshots != nil {
		snap, err := m.snapshots.Get(userID)
		switch {
		case err == nil:
			s.restore(snap)
			m.logger.Info("session: restored from snapshot", "user_id", userID, "status", snap.Status)
		case !errors.Is(err, ErrNoSnapshot):
			m.logger.Warn("session: snapshot load failed", "user_id", userID, "error", err)
		}
	}
	m.sessions[userID] = s
	return s
}

// ActiveSessions returns every session currently in active status. Used by
// the auto-save loop.
func (m *Manager) ActiveSessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.Status() == model.StatusActive {
			out = append(out, s)
		}
	}
	return out
}
