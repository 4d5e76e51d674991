package matchmaking

import (
	"fmt"
	"sync"
	"testing"
)

func TestTryFormMatch_NotEnoughPlayers(t *testing.T) {
	q := NewQueue()

	if _, _, ok := q.TryFormMatch(); ok {
		t.Error("empty queue should not form a match")
	}

	q.Enqueue(Entry{PlayerID: "p1", Playername: "Alice"})
	if _, _, ok := q.TryFormMatch(); ok {
		t.Error("single player should not form a match")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (failed pairing must leave the queue untouched)", q.Len())
	}
}

func TestTryFormMatch_FIFO(t *testing.T) {
	q := NewQueue()
	for i := 1; i <= 4; i++ {
		q.Enqueue(Entry{PlayerID: fmt.Sprintf("p%d", i)})
	}

	first, second, ok := q.TryFormMatch()
	if !ok {
		t.Fatal("expected first pairing")
	}
	if first.PlayerID != "p1" || second.PlayerID != "p2" {
		t.Errorf("first pairing = (%s, %s), want (p1, p2)", first.PlayerID, second.PlayerID)
	}

	first, second, ok = q.TryFormMatch()
	if !ok {
		t.Fatal("expected second pairing")
	}
	if first.PlayerID != "p3" || second.PlayerID != "p4" {
		t.Errorf("second pairing = (%s, %s), want (p3, p4)", first.PlayerID, second.PlayerID)
	}

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestRemove(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Entry{PlayerID: "p1"})
	q.Enqueue(Entry{PlayerID: "p2"})

	if !q.Remove("p1") {
		t.Error("Remove(p1) = false, want true")
	}
	if q.Remove("p1") {
		t.Error("second Remove(p1) = true, want false")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}

	snap := q.Snapshot()
	if len(snap) != 1 || snap[0].PlayerID != "p2" {
		t.Errorf("Snapshot() = %+v, want [p2]", snap)
	}
}

func TestReset(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Entry{PlayerID: "p1"})
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", q.Len())
	}
	// Reset of an empty queue must be a no-op.
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len() after second Reset = %d, want 0", q.Len())
	}
}

func TestConcurrentPairing_NoOverlap(t *testing.T) {
	q := NewQueue()
	const n = 100
	for i := 0; i < n; i++ {
		q.Enqueue(Entry{PlayerID: fmt.Sprintf("p%d", i)})
	}

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < n/2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, second, ok := q.TryFormMatch()
			if !ok {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[first.PlayerID] || seen[second.PlayerID] {
				t.Errorf("player paired twice: %s or %s", first.PlayerID, second.PlayerID)
			}
			seen[first.PlayerID] = true
			seen[second.PlayerID] = true
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("paired %d players, want %d", len(seen), n)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}
