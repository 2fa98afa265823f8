package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sciforge/chemlab/internal/model"
)

// Snapshot is the wholesale-serialized session state. It is overwritten in
// full on every mutation; there is no incremental or versioned persistence,
// matching the single-blob local save the lab has always used.
type Snapshot struct {
	Status         model.ExperimentStatus `json:"status"`
	StartedAt      *time.Time             `json:"started_at,omitempty"`
	ExperimentName string                 `json:"experiment_name,omitempty"`
	Equipment      []model.Equipment      `json:"placed_equipment"`
	Reactions      []model.ReactionEvent  `json:"reactions"`
	Alerts         []model.SafetyAlert    `json:"alerts"`
	Awarded        map[string][]string    `json:"awarded"` // equipment id -> reaction ids
	Score          int                    `json:"score"`
	Badges         []string               `json:"badges"`
}

// ErrNoSnapshot is returned when a user has no stored snapshot.
var ErrNoSnapshot = errors.New("session: no snapshot")

// SnapshotStore persists session snapshots to a local SQLite file, one row
// per user. It stands in for the browser's local storage: best-effort,
// write-through, no durability promises beyond what SQLite gives us.
type SnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSnapshotStore opens (creating if needed) the snapshot database at
// path. Use ":memory:" for tests.
func OpenSnapshotStore(path string, logger *slog.Logger) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open snapshot db: %w", err)
	}
	// Single writer; the session mutex already serializes access per user.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lab_snapshots (
			user_id    TEXT PRIMARY KEY,
			state      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: create snapshot table: %w", err)
	}
	return &SnapshotStore{db: db, logger: logger}, nil
}

// Put overwrites the stored snapshot for a user.
func (st *SnapshotStore) Put(userID string, snap Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session: marshal snapshot: %w", err)
	}
	_, err = st.db.Exec(`
		INSERT INTO lab_snapshots (user_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		userID, string(blob), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("session: write snapshot: %w", err)
	}
	return nil
}

// Get loads the stored snapshot for a user.
func (st *SnapshotStore) Get(userID string) (Snapshot, error) {
	var blob string
	err := st.db.QueryRow(`SELECT state FROM lab_snapshots WHERE user_id = ?`, userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("session: decode snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes the stored snapshot for a user.
func (st *SnapshotStore) Delete(userID string) error {
	if _, err := st.db.Exec(`DELETE FROM lab_snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("session: delete snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (st *SnapshotStore) Close() error {
	return st.db.Close()
}

// snapshotLocked persists the current state. Best-effort: a failed write is
// logged and the in-memory mutation stands. Caller must hold s.mu.
func (s *Session) snapshotLocked() {
	if s.snapshots == nil {
		return
	}
	snap := Snapshot{
		Status:         s.status,
		StartedAt:      s.startedAt,
		ExperimentName: s.experimentName,
		Equipment:      make([]model.Equipment, 0, len(s.equipment)),
		Reactions:      append([]model.ReactionEvent(nil), s.reactions...),
		Alerts:         append([]model.SafetyAlert(nil), s.alerts...),
		Awarded:        make(map[string][]string, len(s.awarded)),
		Score:          s.ledger.Score(),
		Badges:         s.ledger.Badges(),
	}
	for _, eq := range s.equipment {
		snap.Equipment = append(snap.Equipment, *eq)
	}
	for eqID, reactionIDs := range s.awarded {
		ids := make([]string, 0, len(reactionIDs))
		for rid := range reactionIDs {
			ids = append(ids, rid)
		}
		snap.Awarded[eqID.String()] = ids
	}
	if err := s.snapshots.Put(s.userID, snap); err != nil {
		s.logger.Warn("session: snapshot write failed", "user_id", s.userID, "error", err)
	}
}

// restore replaces session state from a snapshot. Called by the Manager
// before the session is handed out, so no lock ordering concerns.
func (s *Session) restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = snap.Status
	s.startedAt = snap.StartedAt
	s.experimentName = snap.ExperimentName
	s.equipment = nil
	for i := range snap.Equipment {
		eq := snap.Equipment[i]
		s.equipment = append(s.equipment, &eq)
	}
	s.reactions = append([]model.ReactionEvent(nil), snap.Reactions...)
	s.alerts = append([]model.SafetyAlert(nil), snap.Alerts...)
	s.awarded = make(map[uuid.UUID]map[string]bool, len(snap.Awarded))
	for eqID, reactionIDs := range snap.Awarded {
		id, err := uuid.Parse(eqID)
		if err != nil {
			continue
		}
		set := make(map[string]bool, len(reactionIDs))
		for _, rid := range reactionIDs {
			set[rid] = true
		}
		s.awarded[id] = set
	}
	s.ledger.Restore(snap.Score, snap.Badges)
}
