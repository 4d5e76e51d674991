package game

import (
	"sync"
	"time"
)

type matchStatus int

const (
	statusInProgress matchStatus = iota
	statusFinalizing
	statusEnded
	statusAbandoned
)

// Match is one active two-player game. All mutable state is guarded by
// mu; click events for the same match never interleave their access to
// the click record or the round counter.
type Match struct {
	ID string

	mu            sync.Mutex
	rounds        int
	record        clickRecord
	status        matchStatus
	finalizeTimer *time.Timer
	finalized     bool
}

func newMatch(id string) *Match {
	return &Match{ID: id}
}

// Rounds returns the number of resolved rounds so far.
func (m *Match) Rounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rounds
}

// abandon marks the match abandoned and stops any pending finalization
// timer. It reports false when the match already ended or was abandoned.
func (m *Match) abandon() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == statusEnded || m.status == statusAbandoned {
		return false
	}
	m.status = statusAbandoned
	if m.finalizeTimer != nil {
		m.finalizeTimer.Stop()
	}
	return true
}
