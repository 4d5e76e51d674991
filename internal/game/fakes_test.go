package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"virushunt/internal/protocol"
)

// fakeStore is an in-memory Storage used by the manager tests. Failure
// counters let individual writes fail a configurable number of times.
type fakeStore struct {
	mu             sync.Mutex
	players        map[string]*Player
	gamePlayers    map[string][]string
	gameRounds     map[string]int
	results        []Result
	highscores     []Highscore
	nextGame       int
	resultFailures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:     make(map[string]*Player),
		gamePlayers: make(map[string][]string),
		gameRounds:  make(map[string]int),
	}
}

func (s *fakeStore) CreatePlayer(_ context.Context, p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.players[p.ID] = &cp
	return nil
}

func (s *fakeStore) GetPlayer(_ context.Context, id string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.ClickTimes = append([]int(nil), p.ClickTimes...)
	return &cp, nil
}

func (s *fakeStore) DeletePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return ErrNotFound
	}
	delete(s.players, id)
	return nil
}

func (s *fakeStore) ResetPlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Score = 0
	p.ClickTimes = nil
	p.LastClick = 0
	p.GameID = ""
	return nil
}

func (s *fakeStore) RecordClick(_ context.Context, id string, reactionMs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.ClickTimes = append(p.ClickTimes, reactionMs)
	p.LastClick = reactionMs
	return nil
}

func (s *fakeStore) IncrementScore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Score++
	return nil
}

func (s *fakeStore) CreateGame(_ context.Context, playerIDs []string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGame++
	id := fmt.Sprintf("game-%d", s.nextGame)
	s.gamePlayers[id] = append([]string(nil), playerIDs...)
	s.gameRounds[id] = 0
	for _, pid := range playerIDs {
		if p, ok := s.players[pid]; ok {
			p.GameID = id
		}
	}
	return &Game{ID: id}, nil
}

func (s *fakeStore) GetGameWithPlayers(_ context.Context, id string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.gamePlayers[id]
	if !ok {
		return nil, ErrNotFound
	}
	g := &Game{ID: id, Rounds: s.gameRounds[id]}
	for _, pid := range ids {
		if p, ok := s.players[pid]; ok {
			cp := *p
			cp.ClickTimes = append([]int(nil), p.ClickTimes...)
			g.Players = append(g.Players, cp)
		}
	}
	return g, nil
}

func (s *fakeStore) SetRounds(_ context.Context, gameID string, rounds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gamePlayers[gameID]; !ok {
		return ErrNotFound
	}
	s.gameRounds[gameID] = rounds
	return nil
}

func (s *fakeStore) ResetClicks(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gamePlayers[gameID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (s *fakeStore) CreateResult(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resultFailures > 0 {
		s.resultFailures--
		return errors.New("transient storage failure")
	}
	s.results = append(s.results, r)
	return nil
}

func (s *fakeStore) CreateHighscore(_ context.Context, h Highscore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highscores = append(s.highscores, h)
	return nil
}

func (s *fakeStore) ListResults(_ context.Context) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Result(nil), s.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *fakeStore) ListHighscores(_ context.Context) ([]Highscore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Highscore(nil), s.highscores...)
	sort.Slice(out, func(i, j int) bool { return out[i].Highscore < out[j].Highscore })
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *fakeStore) resultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func (s *fakeStore) highscoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.highscores)
}

func (s *fakeStore) playerScore(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		return p.Score
	}
	return -1
}

// sent is one message captured by the fake notifier.
type sent struct {
	gameID   string // set for room broadcasts
	playerID string // set for direct sends
	msg      protocol.ServerMessage
}

type fakeNotifier struct {
	mu       sync.Mutex
	rooms    map[string]map[string]bool
	messages []sent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{rooms: make(map[string]map[string]bool)}
}

func (n *fakeNotifier) JoinRoom(gameID, playerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.rooms[gameID] == nil {
		n.rooms[gameID] = make(map[string]bool)
	}
	n.rooms[gameID][playerID] = true
}

func (n *fakeNotifier) LeaveRoom(gameID, playerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.rooms[gameID], playerID)
}

func (n *fakeNotifier) CloseRoom(gameID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.rooms, gameID)
}

func (n *fakeNotifier) ToGame(gameID string, msg protocol.ServerMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sent{gameID: gameID, msg: msg})
}

func (n *fakeNotifier) ToPlayer(playerID string, msg protocol.ServerMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sent{playerID: playerID, msg: msg})
}

func (n *fakeNotifier) ofType(msgType string) []sent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sent
	for _, s := range n.messages {
		if s.msg.Type == msgType {
			out = append(out, s)
		}
	}
	return out
}

func (n *fakeNotifier) roomMembers(gameID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.rooms[gameID])
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
