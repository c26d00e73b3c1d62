package server

import (
	"net/http"

	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "klondike"

// Metrics holds the prometheus collectors for a server. It doubles as a
// session.Monitor so registry events feed the counters directly.
type Metrics struct {
	registry *prometheus.Registry

	GamesCreated      prometheus.Counter
	GamesDestroyed    prometheus.Counter
	ActiveGames       prometheus.Gauge
	Actions           *prometheus.CounterVec
	WatchersPruned    prometheus.Counter
	ActiveConnections prometheus.Gauge
	MessagesReceived  *prometheus.CounterVec
}

var _ session.Monitor = (*Metrics)(nil)

// NewMetrics creates a registry with the Go runtime and process collectors
// plus the klondike collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "created_total",
			Help:      "Total number of games created.",
		}),
		GamesDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "destroyed_total",
			Help:      "Total number of games destroyed.",
		}),
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "active",
			Help:      "Number of games currently registered.",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "actions_total",
			Help:      "Actions applied to games by kind and outcome.",
		}, []string{"kind", "status"}),
		WatchersPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "pruned_total",
			Help:      "Watchers dropped for falling behind.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_received_total",
			Help:      "Messages received from clients by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.GamesCreated,
		m.GamesDestroyed,
		m.ActiveGames,
		m.Actions,
		m.WatchersPruned,
		m.ActiveConnections,
		m.MessagesReceived,
	)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnGameCreated(string) {
	m.GamesCreated.Inc()
	m.ActiveGames.Inc()
}

func (m *Metrics) OnGameDestroyed(string, int) {
	m.GamesDestroyed.Inc()
	m.ActiveGames.Dec()
}

func (m *Metrics) OnAction(_ string, action klondike.Action, outcome klondike.Outcome) {
	m.Actions.WithLabelValues(action.Kind.String(), outcome.Status.String()).Inc()
}

func (m *Metrics) OnWatcherPruned(string) {
	m.WatchersPruned.Inc()
}
