// Package scoring tracks the running score and badge set for a lab session.
package scoring

import (
	"log/slog"
	"sort"
	"sync"
)

// Point values for the discrete award events.
const (
	PointsExperimentStart = 10
	PointsEquipmentPlaced = 10
	PointsChemicalAdded   = 15
	PointsReaction        = 50
)

// Ledger is the score/badge accumulator for one session. All mutation goes
// through this API so the no-concurrent-writers invariant lives in one
// place; HTTP handlers may call from multiple goroutines.
type Ledger struct {
	mu     sync.Mutex
	score  int
	badges map[string]bool
	logger *slog.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{badges: make(map[string]bool), logger: logger}
}

// Award adds points to the score. Negative points are ignored: the score is
// monotonically non-decreasing until Reset.
func (l *Ledger) Award(points int, reason string) {
	if points < 0 {
		l.logger.Warn("scoring: negative award ignored", "points", points, "reason", reason)
		return
	}
	l.mu.Lock()
	l.score += points
	l.mu.Unlock()
	if reason != "" {
		l.logger.Debug("scoring: points awarded", "points", points, "reason", reason)
	}
}

// AwardBadge inserts a badge into the set. Re-awarding a held badge is a
// no-op; the return value reports whether the badge was newly earned.
func (l *Ledger) AwardBadge(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.badges[name] {
		return false
	}
	l.badges[name] = true
	return true
}

// Score returns the current score.
func (l *Ledger) Score() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.score
}

// Badges returns the held badges in sorted order.
func (l *Ledger) Badges() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.badges))
	for b := range l.badges {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Restore replaces the ledger contents from a snapshot.
func (l *Ledger) Restore(score int, badges []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if score < 0 {
		score = 0
	}
	l.score = score
	l.badges = make(map[string]bool, len(badges))
	for _, b := range badges {
		l.badges[b] = true
	}
}

// Reset zeroes the score and clears all badges.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.score = 0
	l.badges = make(map[string]bool)
}
