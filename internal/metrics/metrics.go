// Package metrics exposes Prometheus instrumentation for the game server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "virushunt_connected_clients",
		Help: "Number of currently connected websocket clients.",
	})

	WaitingPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "virushunt_waiting_players",
		Help: "Number of players waiting in the matchmaking queue.",
	})

	MatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "virushunt_matches_started_total",
		Help: "Matches started after two players were paired.",
	})

	RoundsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "virushunt_rounds_resolved_total",
		Help: "Rounds resolved from two recorded clicks.",
	})

	ClicksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "virushunt_clicks_received_total",
		Help: "virusClicked events received from clients.",
	})

	MatchesFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "virushunt_matches_finalized_total",
		Help: "Matches that reached finalization and persisted a result.",
	})

	MatchesAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "virushunt_matches_abandoned_total",
		Help: "Matches abandoned because a player disconnected mid-game.",
	})
)
