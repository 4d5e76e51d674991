package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"virushunt/internal/config"
	"virushunt/internal/db"
	"virushunt/internal/game"
	"virushunt/internal/matchmaking"
	"virushunt/internal/memstore"
	"virushunt/internal/wshub"
)

func Run() error {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}

	cfg := config.Load()

	var store game.Storage
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		store = database
	} else {
		log.Warn("DATABASE_URL not set, results and highscores are kept in memory only")
		store = memstore.NewStore()
	}

	hub := wshub.NewHub()
	manager := game.NewManager(store, hub, matchmaking.NewQueue(), game.Config{
		RoundsPerGame:   cfg.RoundsPerGame,
		GridSize:        cfg.GridSize,
		VirusDelayMinMs: cfg.VirusDelayMinMs,
		VirusDelayMaxMs: cfg.VirusDelayMaxMs,
		ClickTimeoutMs:  cfg.ClickTimeoutMs,
		FinalizeDelay:   time.Duration(cfg.FinalizeDelayMs) * time.Millisecond,
	})

	srv := &Server{
		Hub:  hub,
		Game: manager,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	addr := "0.0.0.0:" + cfg.Port
	log.WithField("addr", addr).Info("server listening")
	return http.ListenAndServe(addr, mux)
}
