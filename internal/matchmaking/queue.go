// Package matchmaking holds the waiting pool of players and pairs them
// into matches two at a time, in join order.
package matchmaking

import (
	"sync"
	"time"
)

// Entry is one player waiting for an opponent.
type Entry struct {
	PlayerID   string
	Playername string
	JoinedAt   time.Time
}

type Queue struct {
	mu      sync.Mutex
	waiting []Entry
}

func NewQueue() *Queue {
	return &Queue{
		waiting: make([]Entry, 0),
	}
}

func (q *Queue) Enqueue(e Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e.JoinedAt.IsZero() {
		e.JoinedAt = time.Now()
	}
	q.waiting = append(q.waiting, e)
}

// TryFormMatch removes and returns the two longest-waiting players.
// It is a no-op while fewer than two players are waiting.
func (q *Queue) TryFormMatch() (Entry, Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiting) < 2 {
		return Entry{}, Entry{}, false
	}
	first, second := q.waiting[0], q.waiting[1]
	q.waiting = append(q.waiting[:0], q.waiting[2:]...)
	return first, second, true
}

// Remove drops the waiting entry for the given player, if present.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.waiting {
		if e.PlayerID == playerID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// Reset discards all waiting entries. Rejoining players reset an empty
// queue before enqueueing so a stale entry from a prior race can never
// be paired with a fresh joiner.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waiting = q.waiting[:0]
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

// Snapshot returns a copy of the current waiting list in join order.
func (q *Queue) Snapshot() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.waiting))
	copy(out, q.waiting)
	return out
}
