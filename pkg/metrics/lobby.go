package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LobbyMetrics contains metrics specific to the lobby/matchmaking service.
type LobbyMetrics struct {
	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	UsersOnline       prometheus.Gauge
	RoomsActive       *prometheus.GaugeVec
	PortsInUse        prometheus.Gauge
	PortAllocFailures prometheus.Counter
	MatchesStarted    prometheus.Counter
	MatchesCompleted  prometheus.Counter
	GameServerExits   *prometheus.CounterVec
	DownloadsTotal    *prometheus.CounterVec
	DownloadBytes     prometheus.Counter
	ReviewsSubmitted  prometheus.Counter
	ReviewsRejected   prometheus.Counter
}

// NewLobbyMetrics creates and registers lobby service metrics.
func NewLobbyMetrics(namespace string) *LobbyMetrics {
	return &LobbyMetrics{
		CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "commands_total",
			Help:      "Total number of player commands processed",
		}, []string{"command", "status"}),
		CommandDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "command_duration_seconds",
			Help:      "Command handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		UsersOnline: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "users_online",
			Help:      "Number of users with a live session",
		}),
		RoomsActive: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "rooms",
			Help:      "Number of rooms by status",
		}, []string{"status"}),
		PortsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "game_server_ports_in_use",
			Help:      "Number of ports currently committed to live game servers",
		}),
		PortAllocFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "port_allocation_failures_total",
			Help:      "Total number of start_game calls that exhausted the port range",
		}),
		MatchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "matches_started_total",
			Help:      "Total number of game servers successfully spawned",
		}),
		MatchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "matches_completed_total",
			Help:      "Total number of game_ended callbacks accepted",
		}),
		GameServerExits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "game_server_exits_total",
			Help:      "Total number of spawned game server processes observed exiting",
		}, []string{"reason"}),
		DownloadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "downloads_total",
			Help:      "Total number of download_game requests",
		}, []string{"status"}),
		DownloadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "download_bytes_total",
			Help:      "Total number of bundle bytes streamed to players",
		}),
		ReviewsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "reviews_submitted_total",
			Help:      "Total number of accepted submit_review calls",
		}),
		ReviewsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lobby",
			Name:      "reviews_rejected_total",
			Help:      "Total number of submit_review calls rejected for missing play history",
		}),
	}
}
