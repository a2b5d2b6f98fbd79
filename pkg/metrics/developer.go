package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DeveloperMetrics contains metrics specific to the developer service.
type DeveloperMetrics struct {
	CommandsTotal  *prometheus.CounterVec
	UploadsTotal   prometheus.Counter
	UpdatesTotal   prometheus.Counter
	DelistsTotal   prometheus.Counter
	UploadBytes    prometheus.Counter
	ActiveTransfers prometheus.Gauge
}

// NewDeveloperMetrics creates and registers developer service metrics.
func NewDeveloperMetrics(namespace string) *DeveloperMetrics {
	return &DeveloperMetrics{
		CommandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "commands_total",
			Help:      "Total number of developer commands processed",
		}, []string{"command", "status"}),
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "uploads_total",
			Help:      "Total number of successful upload_game calls",
		}),
		UpdatesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "updates_total",
			Help:      "Total number of successful update_game calls",
		}),
		DelistsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "delists_total",
			Help:      "Total number of successful remove_game calls",
		}),
		UploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "upload_bytes_total",
			Help:      "Total number of bundle bytes received from developers",
		}),
		ActiveTransfers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "developer",
			Name:      "active_transfers",
			Help:      "Number of in-flight upload/update file transfers",
		}),
	}
}
