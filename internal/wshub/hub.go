// Package wshub manages websocket connections and per-match rooms.
package wshub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	log "github.com/sirupsen/logrus"

	"virushunt/internal/protocol"
)

// Client represents a single WebSocket connection in the hub.
type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks connected clients and groups match participants into rooms
// keyed by game id. It implements game.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]bool),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.PlayerID] = c
}

// Unregister removes a client, closes its Send channel and drops it from
// any room it was in.
func (h *Hub) Unregister(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[playerID]
	if !ok {
		return
	}
	close(c.Send)
	delete(h.clients, playerID)
	for gameID, members := range h.rooms {
		delete(members, playerID)
		if len(members) == 0 {
			delete(h.rooms, gameID)
		}
	}
}

func (h *Hub) JoinRoom(gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[string]bool)
	}
	h.rooms[gameID][playerID] = true
}

func (h *Hub) LeaveRoom(gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[gameID], playerID)
}

func (h *Hub) CloseRoom(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, gameID)
}

// ToGame sends a message to every room member. Non-blocking: drops if a
// client's channel is full.
func (h *Hub) ToGame(gameID string, msg protocol.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("marshaling server message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.rooms[gameID] {
		if c, ok := h.clients[id]; ok {
			h.send(c, data)
		}
	}
}

// ToPlayer sends a message to a single client.
func (h *Hub) ToPlayer(playerID string, msg protocol.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("marshaling server message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[playerID]; ok {
		h.send(c, data)
	}
}

func (h *Hub) send(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		// Drop message if channel full
	}
}
