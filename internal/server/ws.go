package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"virushunt/internal/metrics"
	"virushunt/internal/protocol"
	"virushunt/internal/wshub"
)

// handleWS upgrades the connection, assigns a connection-scoped player
// id and pumps client events into the game manager until the connection
// drops.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.WithError(err).Error("accepting websocket")
		return
	}

	playerID := uuid.New().String()
	client := &wshub.Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 32),
	}
	s.Hub.Register(client)
	metrics.ConnectedClients.Inc()
	log.WithField("player", playerID).Info("client connected")

	ctx := r.Context()
	go client.WritePump(ctx)

	// New connections immediately get the stored results and highscores.
	s.Game.PushRecords(ctx, playerID)

	s.readLoop(ctx, conn, playerID)

	s.Hub.Unregister(playerID)
	metrics.ConnectedClients.Dec()
	s.Game.HandleDisconnect(context.Background(), playerID)
	conn.Close(websocket.StatusNormalClosure, "")
	log.WithField("player", playerID).Info("client disconnected")
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, playerID string) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).WithField("player", playerID).Warn("discarding malformed message")
			continue
		}
		s.dispatch(ctx, playerID, msg)
	}
}

func (s *Server) dispatch(ctx context.Context, playerID string, msg protocol.ClientMessage) {
	switch msg.Type {
	case protocol.TypePlayerJoinRequest:
		snapshot, err := s.Game.HandleJoin(ctx, playerID, msg.Playername)
		if err != nil {
			log.WithError(err).WithField("player", playerID).Error("handling join request")
			return
		}
		s.Hub.ToPlayer(playerID, protocol.JoinResponse(snapshot))
		s.Game.TryStartMatch(ctx)

	case protocol.TypePlayerJoinAgainRequest:
		snapshot, err := s.Game.HandleJoinAgain(ctx, playerID, msg.Playername)
		if err != nil {
			log.WithError(err).WithField("player", playerID).Error("handling join-again request")
			return
		}
		s.Hub.ToPlayer(playerID, protocol.JoinResponse(snapshot))
		s.Game.TryStartMatch(ctx)

	case protocol.TypeVirusClicked:
		s.Game.HandleClick(ctx, msg.GameID, msg.PlayerID, msg.PlayerName, msg.ReactionTime)

	case protocol.TypePlayerWantsToLeave:
		s.Game.HandleLeave(ctx, playerID)

	default:
		log.WithFields(log.Fields{"player": playerID, "type": msg.Type}).Warn("unknown message type")
	}
}
