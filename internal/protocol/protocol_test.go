package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoundResult_TieOmitsWinner(t *testing.T) {
	data, err := json.Marshal(RoundResult(nil))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "winner") {
		t.Errorf("tied round result should omit the winner field, got %s", data)
	}

	name := "Alice"
	data, err = json.Marshal(RoundResult(&name))
	if err != nil {
		t.Fatal(err)
	}
	var got ServerMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Winner == nil || *got.Winner != "Alice" {
		t.Errorf("winner = %v, want Alice", got.Winner)
	}
}

func TestJoinResponse_Shape(t *testing.T) {
	snap := &GameSnapshot{Players: []PlayerInfo{{ID: "p1", Playername: "Alice"}}}
	data, err := json.Marshal(JoinResponse(snap))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["type"] != TypePlayerJoinResponse {
		t.Errorf("type = %v, want %s", got["type"], TypePlayerJoinResponse)
	}
	if got["success"] != true {
		t.Errorf("success = %v, want true", got["success"])
	}
	if _, ok := got["game"]; !ok {
		t.Error("join response should carry the game snapshot")
	}
}

func TestClientMessage_Parse(t *testing.T) {
	raw := `{"type":"virusClicked","gameId":"g1","playerId":"p1","playerName":"Alice","reactionTime":245}`
	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeVirusClicked || msg.GameID != "g1" || msg.PlayerID != "p1" {
		t.Errorf("parsed message = %+v", msg)
	}
	if msg.ReactionTime != 245 {
		t.Errorf("reactionTime = %d, want 245", msg.ReactionTime)
	}
}
