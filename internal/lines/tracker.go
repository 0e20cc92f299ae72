// Package lines tracks per-game betting line snapshots and reports
// movement between successive observations.
package lines

import (
	"math"
	"sync"
	"time"
)

// DefaultStaleAfter is how old a snapshot may be before it is flagged.
const DefaultStaleAfter = 10 * time.Minute

// Snapshot is the most recent spread/total observation for one game.
type Snapshot struct {
	Spread    float64   `json:"spread"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Movement is the delta against the prior snapshot. Since is nil when
// this was the first observation.
type Movement struct {
	SpreadDelta float64    `json:"spread_delta"`
	TotalDelta  float64    `json:"total_delta"`
	Since       *time.Time `json:"since,omitempty"`
}

// Tracker keeps the latest snapshot per tracked game. Safe for
// concurrent use.
type Tracker struct {
	mu         sync.Mutex
	latest     map[string]Snapshot
	staleAfter time.Duration

	now func() time.Time
}

// NewTracker builds a tracker; a zero staleAfter uses the default.
func NewTracker(staleAfter time.Duration) *Tracker {
	if staleAfter == 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Tracker{
		latest:     make(map[string]Snapshot),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Record stores a new snapshot and returns the movement versus the prior
// one. Deltas are rounded to one decimal; with no prior snapshot they are
// zero and Since is nil. A zero snapshot timestamp is stamped with now.
func (t *Tracker) Record(gameID string, snap Snapshot) Movement {
	t.mu.Lock()
	defer t.mu.Unlock()

	if snap.Timestamp.IsZero() {
		snap.Timestamp = t.now()
	}

	var mv Movement
	if prev, ok := t.latest[gameID]; ok {
		since := prev.Timestamp
		mv = Movement{
			SpreadDelta: round1(snap.Spread - prev.Spread),
			TotalDelta:  round1(snap.Total - prev.Total),
			Since:       &since,
		}
	}

	t.latest[gameID] = snap
	return mv
}

// Latest returns the current snapshot for a game.
func (t *Tracker) Latest(gameID string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok := t.latest[gameID]
	return snap, ok
}

// IsStale reports whether the tracked snapshot is older than the
// staleness threshold. An untracked game reads as stale.
func (t *Tracker) IsStale(gameID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, ok := t.latest[gameID]
	if !ok {
		return true
	}
	return t.now().Sub(snap.Timestamp) > t.staleAfter
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
