package game

import (
	"context"
	"errors"

	"virushunt/internal/protocol"
)

// ErrNotFound is returned by Storage implementations when a referenced
// player, game or result does not exist.
var ErrNotFound = errors.New("not found")

// Player is a connected player. The ID is connection-scoped: a new
// websocket connection gets a new identity.
type Player struct {
	ID         string
	Playername string
	Score      int
	ClickTimes []int
	LastClick  int // most recent reaction time, ms
	GameID     string
}

// Game is one two-player match.
type Game struct {
	ID      string
	Clicks  int
	Rounds  int
	Players []Player
}

// Result is the immutable summary of one finished game.
type Result struct {
	ID                 string
	PlayerOneName      string
	PlayerTwoName      string
	PlayerOneHighscore float64
	PlayerTwoHighscore float64
	PlayerOnePoint     int
	PlayerTwoPoint     int
	Timestamp          int64 // unix milliseconds
}

// Highscore is one append-only highscore entry. Players accumulate one
// entry per finished game; entries are never keyed or deduplicated.
type Highscore struct {
	ID         string
	Playername string
	Highscore  float64
}

// Storage persists players, games, results and highscores. The db
// package backs it with PostgreSQL; memstore keeps everything in memory.
type Storage interface {
	CreatePlayer(ctx context.Context, p Player) error
	GetPlayer(ctx context.Context, id string) (*Player, error)
	DeletePlayer(ctx context.Context, id string) error
	// ResetPlayer zeroes a player's score and recorded click times for a
	// fresh game.
	ResetPlayer(ctx context.Context, id string) error
	// RecordClick appends a reaction time to the player's click history
	// and stores it as the player's latest click.
	RecordClick(ctx context.Context, id string, reactionMs int) error
	IncrementScore(ctx context.Context, id string) error

	// CreateGame creates a game with rounds and clicks at zero and
	// associates the given players with it.
	CreateGame(ctx context.Context, playerIDs []string) (*Game, error)
	// GetGameWithPlayers returns the game and its players in the order
	// they were associated at creation.
	GetGameWithPlayers(ctx context.Context, id string) (*Game, error)
	SetRounds(ctx context.Context, gameID string, rounds int) error
	ResetClicks(ctx context.Context, gameID string) error

	CreateResult(ctx context.Context, r Result) error
	CreateHighscore(ctx context.Context, h Highscore) error
	// ListResults returns the latest ten results, newest first.
	ListResults(ctx context.Context) ([]Result, error)
	// ListHighscores returns the ten lowest highscores, ascending.
	ListHighscores(ctx context.Context) ([]Highscore, error)
}

// Notifier delivers server events to connected clients, addressed either
// to a single player or to both members of a game. The wshub package
// provides the production implementation.
type Notifier interface {
	JoinRoom(gameID, playerID string)
	LeaveRoom(gameID, playerID string)
	CloseRoom(gameID string)
	ToGame(gameID string, msg protocol.ServerMessage)
	ToPlayer(playerID string, msg protocol.ServerMessage)
}
