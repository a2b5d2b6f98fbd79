package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DataStoreMetrics contains metrics specific to the data store service.
type DataStoreMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	SnapshotWrites   prometheus.Counter
	SnapshotErrors   prometheus.Counter
	SnapshotSizeBytes prometheus.Gauge
	CollectionSizes  *prometheus.GaugeVec
}

// NewDataStoreMetrics creates and registers data store metrics.
func NewDataStoreMetrics(namespace string) *DataStoreMetrics {
	return &DataStoreMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "requests_total",
			Help:      "Total number of (collection, action) requests processed",
		}, []string{"collection", "action", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "request_duration_seconds",
			Help:      "Request handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "action"}),
		SnapshotWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "snapshot_writes_total",
			Help:      "Total number of catalog snapshot rewrites",
		}),
		SnapshotErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "snapshot_errors_total",
			Help:      "Total number of failed catalog snapshot writes",
		}),
		SnapshotSizeBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "snapshot_size_bytes",
			Help:      "Size in bytes of the last successfully written snapshot",
		}),
		CollectionSizes: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "collection_rows",
			Help:      "Number of rows currently held per collection",
		}, []string{"collection"}),
	}
}
