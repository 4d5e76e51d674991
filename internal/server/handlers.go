package server

import (
	"net/http"

	"virushunt/internal/game"
	"virushunt/internal/wshub"
)

type Server struct {
	Hub  *wshub.Hub
	Game *game.Manager
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
