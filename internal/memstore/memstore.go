// Package memstore is an in-memory implementation of game.Storage. The
// server falls back to it when DATABASE_URL is not configured; results
// and highscores then only live until the process exits.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"virushunt/internal/game"
)

const listLimit = 10

type Store struct {
	mu          sync.Mutex
	players     map[string]*game.Player
	gamePlayers map[string][]string
	games       map[string]*game.Game
	results     []game.Result
	highscores  []game.Highscore
}

func NewStore() *Store {
	return &Store{
		players:     make(map[string]*game.Player),
		gamePlayers: make(map[string][]string),
		games:       make(map[string]*game.Game),
	}
}

func (s *Store) CreatePlayer(_ context.Context, p game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	cp.ClickTimes = append([]int(nil), p.ClickTimes...)
	s.players[p.ID] = &cp
	return nil
}

func (s *Store) GetPlayer(_ context.Context, id string) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	return copyPlayer(p), nil
}

func (s *Store) DeletePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return game.ErrNotFound
	}
	delete(s.players, id)
	return nil
}

func (s *Store) ResetPlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return game.ErrNotFound
	}
	p.Score = 0
	p.ClickTimes = nil
	p.LastClick = 0
	p.GameID = ""
	return nil
}

func (s *Store) RecordClick(_ context.Context, id string, reactionMs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return game.ErrNotFound
	}
	p.ClickTimes = append(p.ClickTimes, reactionMs)
	p.LastClick = reactionMs
	return nil
}

func (s *Store) IncrementScore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return game.ErrNotFound
	}
	p.Score++
	return nil
}

func (s *Store) CreateGame(_ context.Context, playerIDs []string) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &game.Game{ID: uuid.New().String()}
	s.games[g.ID] = g
	s.gamePlayers[g.ID] = append([]string(nil), playerIDs...)
	for _, pid := range playerIDs {
		if p, ok := s.players[pid]; ok {
			p.GameID = g.ID
		}
	}
	return &game.Game{ID: g.ID}, nil
}

func (s *Store) GetGameWithPlayers(_ context.Context, id string) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	out := &game.Game{ID: g.ID, Clicks: g.Clicks, Rounds: g.Rounds}
	for _, pid := range s.gamePlayers[id] {
		if p, ok := s.players[pid]; ok {
			out.Players = append(out.Players, *copyPlayer(p))
		}
	}
	return out, nil
}

func (s *Store) SetRounds(_ context.Context, gameID string, rounds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return game.ErrNotFound
	}
	g.Rounds = rounds
	return nil
}

func (s *Store) ResetClicks(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return game.ErrNotFound
	}
	g.Clicks = 0
	return nil
}

func (s *Store) CreateResult(_ context.Context, r game.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	s.results = append(s.results, r)
	return nil
}

func (s *Store) CreateHighscore(_ context.Context, h game.Highscore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	s.highscores = append(s.highscores, h)
	return nil
}

func (s *Store) ListResults(_ context.Context) ([]game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]game.Result(nil), s.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > listLimit {
		out = out[:listLimit]
	}
	return out, nil
}

func (s *Store) ListHighscores(_ context.Context) ([]game.Highscore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]game.Highscore(nil), s.highscores...)
	sort.Slice(out, func(i, j int) bool { return out[i].Highscore < out[j].Highscore })
	if len(out) > listLimit {
		out = out[:listLimit]
	}
	return out, nil
}

func copyPlayer(p *game.Player) *game.Player {
	cp := *p
	cp.ClickTimes = append([]int(nil), p.ClickTimes...)
	return &cp
}
