// Package protocol defines the JSON messages exchanged over the game's
// websocket connection. Every message carries a type tag; the remaining
// fields depend on the type.
package protocol

// Client-to-server message types.
const (
	TypePlayerJoinRequest      = "playerJoinRequest"
	TypePlayerJoinAgainRequest = "playerJoinAgainRequest"
	TypeVirusClicked           = "virusClicked"
	TypePlayerWantsToLeave     = "playerWantsToLeave"
)

// Server-to-client message types.
const (
	TypePlayerJoinResponse  = "playerJoinResponse"
	TypeGameCreated         = "gameCreated"
	TypePlayersJoinedGame   = "playersJoinedGame"
	TypeSetVirusPosition    = "setVirusPosition"
	TypePlayersClickedVirus = "playersClickedVirus"
	TypeRoundResult         = "roundResult"
	TypeShowGif             = "showGif"
	TypeEndGame             = "endGame"
	TypeGameWinner          = "gameWinner"
	TypePlayerDisconnected  = "playerDisconnected"
	TypeSendResults         = "sendResults"
	TypeSendHighscores      = "sendHighscores"
)

// TieSentinel is reported as the game winner when both players finish
// with equal scores.
const TieSentinel = "It's a tie!"

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type         string `json:"type"`
	Playername   string `json:"playername,omitempty"`
	GameID       string `json:"gameId,omitempty"`
	PlayerID     string `json:"playerId,omitempty"`
	PlayerName   string `json:"playerName,omitempty"`
	ReactionTime int    `json:"reactionTime,omitempty"`
}

// PlayerInfo is the client-facing view of a player.
type PlayerInfo struct {
	ID         string `json:"id"`
	Playername string `json:"playername"`
	Score      int    `json:"score"`
	ClickTime  int    `json:"clickTime,omitempty"`
	GameID     string `json:"gameId,omitempty"`
}

// GameSnapshot is the game state returned in join responses.
type GameSnapshot struct {
	ID      string       `json:"id"`
	Clicks  int          `json:"clicks"`
	Rounds  int          `json:"rounds"`
	Players []PlayerInfo `json:"players"`
}

// ResultInfo is one finished game as sent to clients.
type ResultInfo struct {
	PlayerOneName      string  `json:"playerOneName"`
	PlayerTwoName      string  `json:"playerTwoName"`
	PlayerOneHighscore float64 `json:"playerOneHighscore"`
	PlayerTwoHighscore float64 `json:"playerTwoHighscore"`
	PlayerOnePoint     int     `json:"playerOnePoint"`
	PlayerTwoPoint     int     `json:"playerTwoPoint"`
	Timestamp          int64   `json:"timestamp"`
}

// HighscoreInfo is one highscore entry as sent to clients.
type HighscoreInfo struct {
	Playername string  `json:"playername"`
	Highscore  float64 `json:"highscore"`
}

// ServerMessage is the JSON structure sent to clients. A roundResult
// message omits the winner field entirely when the round was a tie.
type ServerMessage struct {
	Type       string          `json:"type"`
	Success    bool            `json:"success,omitempty"`
	Game       *GameSnapshot   `json:"game,omitempty"`
	GameID     string          `json:"gameId,omitempty"`
	GridColumn int             `json:"gridColumn,omitempty"`
	GridRow    int             `json:"gridRow,omitempty"`
	VirusDelay int             `json:"virusDelay,omitempty"`
	Players    []PlayerInfo    `json:"players,omitempty"`
	Winner     *string         `json:"winner,omitempty"`
	Playername string          `json:"playername,omitempty"`
	Results    []ResultInfo    `json:"results,omitempty"`
	Highscores []HighscoreInfo `json:"highscores,omitempty"`
}

func JoinResponse(snapshot *GameSnapshot) ServerMessage {
	return ServerMessage{Type: TypePlayerJoinResponse, Success: true, Game: snapshot}
}

func GameCreated(gameID string) ServerMessage {
	return ServerMessage{Type: TypeGameCreated, GameID: gameID}
}

func PlayersJoinedGame(players []PlayerInfo) ServerMessage {
	return ServerMessage{Type: TypePlayersJoinedGame, Players: players}
}

func SetVirusPosition(gridColumn, gridRow, virusDelayMs int) ServerMessage {
	return ServerMessage{
		Type:       TypeSetVirusPosition,
		GridColumn: gridColumn,
		GridRow:    gridRow,
		VirusDelay: virusDelayMs,
	}
}

func PlayersClickedVirus(players []PlayerInfo) ServerMessage {
	return ServerMessage{Type: TypePlayersClickedVirus, Players: players}
}

// RoundResult reports the round winner's name, or nil for a tie.
func RoundResult(winner *string) ServerMessage {
	return ServerMessage{Type: TypeRoundResult, Winner: winner}
}

func ShowGif() ServerMessage {
	return ServerMessage{Type: TypeShowGif}
}

func EndGame() ServerMessage {
	return ServerMessage{Type: TypeEndGame}
}

func GameWinner(name string) ServerMessage {
	return ServerMessage{Type: TypeGameWinner, Winner: &name}
}

func PlayerDisconnected(playername string) ServerMessage {
	return ServerMessage{Type: TypePlayerDisconnected, Playername: playername}
}

func SendResults(results []ResultInfo) ServerMessage {
	return ServerMessage{Type: TypeSendResults, Results: results}
}

func SendHighscores(highscores []HighscoreInfo) ServerMessage {
	return ServerMessage{Type: TypeSendHighscores, Highscores: highscores}
}
