package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"virushunt/internal/matchmaking"
	"virushunt/internal/metrics"
	"virushunt/internal/protocol"
)

// highscoreDivisor is the fixed divisor for a player's end-of-game
// highscore. The sum of recorded reaction times is always divided by
// ten, even when fewer than ten clicks were recorded, so the value
// stays comparable with historical entries.
const highscoreDivisor = 10

// finalizeWriteRetries bounds the retry attempts for each finalization
// write. Losing a result or highscore row is user-visible data loss, so
// these writes get a second chance that ordinary per-event writes don't.
const finalizeWriteRetries = 2

type Config struct {
	RoundsPerGame   int
	GridSize        int
	VirusDelayMinMs int
	VirusDelayMaxMs int
	ClickTimeoutMs  int
	FinalizeDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RoundsPerGame:   10,
		GridSize:        10,
		VirusDelayMinMs: 1500,
		VirusDelayMaxMs: 10000,
		ClickTimeoutMs:  30000,
		FinalizeDelay:   2 * time.Second,
	}
}

// Manager owns the matchmaking queue and all active matches, and drives
// each match from pairing through ten rounds to finalization.
type Manager struct {
	mu      sync.Mutex
	matches map[string]*Match

	queue  *matchmaking.Queue
	store  Storage
	notify Notifier
	cfg    Config
}

func NewManager(store Storage, notify Notifier, queue *matchmaking.Queue, cfg Config) *Manager {
	return &Manager{
		matches: make(map[string]*Match),
		queue:   queue,
		store:   store,
		notify:  notify,
		cfg:     cfg,
	}
}

func (m *Manager) match(gameID string) *Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches[gameID]
}

func (m *Manager) removeMatch(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, gameID)
}

// HandleJoin registers a new player and places them in the waiting
// queue. The returned snapshot lists everyone currently waiting.
func (m *Manager) HandleJoin(ctx context.Context, playerID, playername string) (*protocol.GameSnapshot, error) {
	p := Player{ID: playerID, Playername: playername, ClickTimes: []int{}}
	if err := m.store.CreatePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}

	m.queue.Enqueue(matchmaking.Entry{PlayerID: playerID, Playername: playername})
	metrics.WaitingPlayers.Set(float64(m.queue.Len()))

	log.WithFields(log.Fields{"player": playerID, "playername": playername}).Info("player joined waiting pool")
	return waitingSnapshot(m.queue.Snapshot()), nil
}

// HandleJoinAgain resets a returning player's score and click history
// and re-enqueues them. An empty queue is reset first so a stale entry
// from a prior race can never be paired with the fresh joiner.
func (m *Manager) HandleJoinAgain(ctx context.Context, playerID, playername string) (*protocol.GameSnapshot, error) {
	err := m.store.ResetPlayer(ctx, playerID)
	if errors.Is(err, ErrNotFound) {
		err = m.store.CreatePlayer(ctx, Player{ID: playerID, Playername: playername, ClickTimes: []int{}})
	}
	if err != nil {
		return nil, fmt.Errorf("resetting player: %w", err)
	}

	if m.queue.Len() == 0 {
		m.queue.Reset()
	}
	m.queue.Enqueue(matchmaking.Entry{PlayerID: playerID, Playername: playername})
	metrics.WaitingPlayers.Set(float64(m.queue.Len()))

	log.WithFields(log.Fields{"player": playerID, "playername": playername}).Info("player rejoined waiting pool")
	return waitingSnapshot(m.queue.Snapshot()), nil
}

// TryStartMatch pairs the two longest-waiting players, if there are two,
// and starts their match: the game is persisted, both players join the
// game's notification room, and the first virus is placed.
func (m *Manager) TryStartMatch(ctx context.Context) {
	first, second, ok := m.queue.TryFormMatch()
	if !ok {
		return
	}
	metrics.WaitingPlayers.Set(float64(m.queue.Len()))

	g, err := m.store.CreateGame(ctx, []string{first.PlayerID, second.PlayerID})
	if err != nil {
		log.WithError(err).Error("creating game")
		return
	}
	if err := m.store.ResetClicks(ctx, g.ID); err != nil {
		log.WithError(err).WithField("game", g.ID).Error("resetting clicks")
	}

	match := newMatch(g.ID)
	m.mu.Lock()
	m.matches[g.ID] = match
	m.mu.Unlock()

	m.notify.JoinRoom(g.ID, first.PlayerID)
	m.notify.JoinRoom(g.ID, second.PlayerID)
	m.notify.ToGame(g.ID, protocol.GameCreated(g.ID))

	withPlayers, err := m.store.GetGameWithPlayers(ctx, g.ID)
	if err != nil {
		log.WithError(err).WithField("game", g.ID).Error("loading game players")
	} else {
		m.notify.ToGame(g.ID, protocol.PlayersJoinedGame(playerInfos(withPlayers.Players)))
	}

	log.WithFields(log.Fields{
		"game":      g.ID,
		"playerOne": first.Playername,
		"playerTwo": second.Playername,
	}).Info("match started")
	metrics.MatchesStarted.Inc()

	m.placeVirus(g.ID)
}

// placeVirus picks a uniform grid cell and appearance delay and
// broadcasts them. The delay is applied client-side before the virus
// becomes visible.
func (m *Manager) placeVirus(gameID string) {
	col := rand.Intn(m.cfg.GridSize) + 1
	row := rand.Intn(m.cfg.GridSize) + 1
	delay := rand.Intn(m.cfg.VirusDelayMaxMs-m.cfg.VirusDelayMinMs+1) + m.cfg.VirusDelayMinMs
	m.notify.ToGame(gameID, protocol.SetVirusPosition(col, row, delay))
}

// HandleClick feeds one player's click into the match's round record.
// The second distinct click of a round resolves it: the winner scores,
// the record resets, and either the next virus is placed or, after the
// tenth round, finalization is scheduled.
func (m *Manager) HandleClick(ctx context.Context, gameID, playerID, playerName string, reactionMs int) {
	metrics.ClicksReceived.Inc()

	// Reaction times are client-reported; cap them at the click timeout
	// so a misbehaving client cannot inflate highscore sums.
	if reactionMs > m.cfg.ClickTimeoutMs {
		reactionMs = m.cfg.ClickTimeoutMs
	}
	if reactionMs < 0 {
		return
	}

	match := m.match(gameID)
	if match == nil {
		return
	}

	match.mu.Lock()
	if match.status != statusInProgress {
		match.mu.Unlock()
		return
	}
	accepted := match.record.record(click{playerID: playerID, playerName: playerName, timeMs: reactionMs})
	if !accepted {
		match.mu.Unlock()
		return
	}
	resolved := match.record.resolved()
	var outcome roundOutcome
	if resolved {
		outcome = match.record.outcome()
		match.record.reset()
		match.rounds++
	}
	rounds := match.rounds
	match.mu.Unlock()

	if err := m.store.RecordClick(ctx, playerID, reactionMs); err != nil {
		log.WithError(err).WithField("player", playerID).Error("recording click")
	}
	if !resolved {
		return
	}

	metrics.RoundsResolved.Inc()
	if err := m.store.SetRounds(ctx, gameID, rounds); err != nil {
		log.WithError(err).WithField("game", gameID).Error("persisting round counter")
	}

	var winnerName *string
	if !outcome.tie {
		if err := m.store.IncrementScore(ctx, outcome.winner.playerID); err != nil {
			log.WithError(err).WithField("player", outcome.winner.playerID).Error("incrementing score")
		}
		name := outcome.winner.playerName
		winnerName = &name
	}
	m.notify.ToGame(gameID, protocol.RoundResult(winnerName))

	withPlayers, err := m.store.GetGameWithPlayers(ctx, gameID)
	if err != nil {
		log.WithError(err).WithField("game", gameID).Error("loading game players")
	} else {
		m.notify.ToGame(gameID, protocol.PlayersClickedVirus(playerInfos(withPlayers.Players)))
	}

	if rounds < m.cfg.RoundsPerGame {
		m.placeVirus(gameID)
		return
	}

	// Last round: no further virus, give clients time to animate,
	// then finalize.
	m.notify.ToGame(gameID, protocol.ShowGif())
	m.scheduleFinalize(match)
}

func (m *Manager) scheduleFinalize(match *Match) {
	match.mu.Lock()
	defer match.mu.Unlock()
	if match.status != statusInProgress {
		return
	}
	match.status = statusFinalizing
	match.finalizeTimer = time.AfterFunc(m.cfg.FinalizeDelay, func() {
		m.finalize(match)
	})
}

// finalize persists the result and highscores and announces the game
// winner. It runs at most once per match and is a no-op when the match
// was abandoned before the timer fired.
func (m *Manager) finalize(match *Match) {
	match.mu.Lock()
	if match.finalized || match.status == statusAbandoned {
		match.mu.Unlock()
		return
	}
	match.finalized = true
	match.mu.Unlock()

	ctx := context.Background()
	g, err := m.store.GetGameWithPlayers(ctx, match.ID)
	if err != nil {
		log.WithError(err).WithField("game", match.ID).Error("finalize: loading game")
		return
	}
	if len(g.Players) != 2 {
		log.WithField("game", match.ID).Errorf("finalize: got %d players, want 2", len(g.Players))
		return
	}
	playerOne, playerTwo := g.Players[0], g.Players[1]

	result := Result{
		PlayerOneName:      playerOne.Playername,
		PlayerTwoName:      playerTwo.Playername,
		PlayerOneHighscore: highscoreValue(playerOne.ClickTimes),
		PlayerTwoHighscore: highscoreValue(playerTwo.ClickTimes),
		PlayerOnePoint:     playerOne.Score,
		PlayerTwoPoint:     playerTwo.Score,
		Timestamp:          time.Now().UnixMilli(),
	}
	m.persistWithRetry(match.ID, "result", func() error {
		return m.store.CreateResult(ctx, result)
	})
	m.persistWithRetry(match.ID, "highscore", func() error {
		return m.store.CreateHighscore(ctx, Highscore{
			Playername: playerOne.Playername,
			Highscore:  result.PlayerOneHighscore,
		})
	})
	m.persistWithRetry(match.ID, "highscore", func() error {
		return m.store.CreateHighscore(ctx, Highscore{
			Playername: playerTwo.Playername,
			Highscore:  result.PlayerTwoHighscore,
		})
	})

	m.notify.ToGame(match.ID, protocol.GameWinner(gameWinnerName(playerOne, playerTwo)))
	m.notify.ToGame(match.ID, protocol.EndGame())

	match.mu.Lock()
	match.status = statusEnded
	match.mu.Unlock()
	m.removeMatch(match.ID)
	m.notify.CloseRoom(match.ID)

	log.WithField("game", match.ID).Info("match finalized")
	metrics.MatchesFinalized.Inc()
}

// persistWithRetry retries a finalization write with exponential backoff
// before giving up and logging the loss.
func (m *Manager) persistWithRetry(gameID, kind string, op backoff.Operation) {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), finalizeWriteRetries)
	if err := backoff.Retry(op, b); err != nil {
		log.WithError(err).WithFields(log.Fields{"game": gameID, "write": kind}).Error("finalize: write failed after retries")
	}
}

// HandleDisconnect removes the player from the waiting queue and, if the
// player held an active match, notifies the remaining player and
// abandons the match. No further rounds or finalization run afterwards.
func (m *Manager) HandleDisconnect(ctx context.Context, playerID string) {
	if m.queue.Remove(playerID) {
		metrics.WaitingPlayers.Set(float64(m.queue.Len()))
	}

	p, err := m.store.GetPlayer(ctx, playerID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).WithField("player", playerID).Error("loading disconnecting player")
		}
		return
	}
	if p.GameID == "" {
		return
	}
	match := m.match(p.GameID)
	if match == nil {
		return
	}
	if !match.abandon() {
		return
	}

	m.notify.LeaveRoom(p.GameID, playerID)
	m.notify.ToGame(p.GameID, protocol.PlayerDisconnected(p.Playername))
	m.removeMatch(p.GameID)
	m.notify.CloseRoom(p.GameID)

	log.WithFields(log.Fields{"game": p.GameID, "playername": p.Playername}).Info("match abandoned on disconnect")
	metrics.MatchesAbandoned.Inc()
}

// HandleLeave deletes the player record for a player who explicitly
// leaves, and drops any waiting-queue entry they still hold.
func (m *Manager) HandleLeave(ctx context.Context, playerID string) {
	if m.queue.Remove(playerID) {
		metrics.WaitingPlayers.Set(float64(m.queue.Len()))
	}
	if err := m.store.DeletePlayer(ctx, playerID); err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).WithField("player", playerID).Error("deleting player")
	}
}

// PushRecords sends the stored results and highscores to one player.
// Clients receive both immediately after connecting.
func (m *Manager) PushRecords(ctx context.Context, playerID string) {
	results, err := m.store.ListResults(ctx)
	if err != nil {
		log.WithError(err).Error("listing results")
	} else {
		m.notify.ToPlayer(playerID, protocol.SendResults(resultInfos(results)))
	}

	highscores, err := m.store.ListHighscores(ctx)
	if err != nil {
		log.WithError(err).Error("listing highscores")
	} else {
		m.notify.ToPlayer(playerID, protocol.SendHighscores(highscoreInfos(highscores)))
	}
}

func highscoreValue(clickTimes []int) float64 {
	sum := 0
	for _, t := range clickTimes {
		sum += t
	}
	return float64(sum) / highscoreDivisor
}

// gameWinnerName is the name of the player with the strictly higher
// total score, or the tie sentinel when the scores are equal.
func gameWinnerName(playerOne, playerTwo Player) string {
	switch {
	case playerOne.Score > playerTwo.Score:
		return playerOne.Playername
	case playerTwo.Score > playerOne.Score:
		return playerTwo.Playername
	default:
		return protocol.TieSentinel
	}
}

func waitingSnapshot(entries []matchmaking.Entry) *protocol.GameSnapshot {
	players := make([]protocol.PlayerInfo, 0, len(entries))
	for _, e := range entries {
		players = append(players, protocol.PlayerInfo{ID: e.PlayerID, Playername: e.Playername})
	}
	return &protocol.GameSnapshot{Players: players}
}

func playerInfos(players []Player) []protocol.PlayerInfo {
	out := make([]protocol.PlayerInfo, 0, len(players))
	for _, p := range players {
		out = append(out, protocol.PlayerInfo{
			ID:         p.ID,
			Playername: p.Playername,
			Score:      p.Score,
			ClickTime:  p.LastClick,
			GameID:     p.GameID,
		})
	}
	return out
}

func resultInfos(results []Result) []protocol.ResultInfo {
	out := make([]protocol.ResultInfo, 0, len(results))
	for _, r := range results {
		out = append(out, protocol.ResultInfo{
			PlayerOneName:      r.PlayerOneName,
			PlayerTwoName:      r.PlayerTwoName,
			PlayerOneHighscore: r.PlayerOneHighscore,
			PlayerTwoHighscore: r.PlayerTwoHighscore,
			PlayerOnePoint:     r.PlayerOnePoint,
			PlayerTwoPoint:     r.PlayerTwoPoint,
			Timestamp:          r.Timestamp,
		})
	}
	return out
}

func highscoreInfos(highscores []Highscore) []protocol.HighscoreInfo {
	out := make([]protocol.HighscoreInfo, 0, len(highscores))
	for _, h := range highscores {
		out = append(out, protocol.HighscoreInfo{Playername: h.Playername, Highscore: h.Highscore})
	}
	return out
}
