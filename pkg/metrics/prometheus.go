// Package metrics provides the per-service Prometheus registry shared by
// the data store, lobby, and developer services.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceMetrics contains metrics shared by all services.
type ServiceMetrics struct {
	BuildInfo *prometheus.GaugeVec
	StartTime prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  *prometheus.CounterVec
}

// NewServiceMetrics creates and registers the common service metrics.
func NewServiceMetrics(namespace, serviceLabel string) *ServiceMetrics {
	return &ServiceMetrics{
		BuildInfo: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "build_info",
			Help:      "Build information",
		}, []string{"version", "commit", "build_time"}),
		StartTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of service start time",
		}),
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests to the metrics/health endpoint",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "connections_active",
			Help:      "Number of active TCP connections",
		}),
		ConnectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceLabel,
			Name:      "connections_total",
			Help:      "Total number of accepted TCP connections",
		}, []string{"result"}),
	}
}

// Registry bundles the service-wide metrics plus the domain-specific
// metrics for whichever service constructs it.
type Registry struct {
	serviceName string
	logger      *slog.Logger
	server      *http.Server

	Service   *ServiceMetrics
	DataStore *DataStoreMetrics
	Lobby     *LobbyMetrics
	Developer *DeveloperMetrics
}

// NewRegistry creates a metrics registry for one service process.
func NewRegistry(serviceName, version, buildTime, gitCommit string, logger *slog.Logger) *Registry {
	reg := &Registry{serviceName: serviceName, logger: logger}
	reg.Service = NewServiceMetrics("playforge", serviceName)

	switch serviceName {
	case "data-store":
		reg.DataStore = NewDataStoreMetrics("playforge")
	case "lobby":
		reg.Lobby = NewLobbyMetrics("playforge")
	case "developer":
		reg.Developer = NewDeveloperMetrics("playforge")
	}

	reg.Service.BuildInfo.WithLabelValues(version, gitCommit, buildTime).Set(1)
	reg.Service.StartTime.SetToCurrentTime()
	return reg
}

// StartMetricsServer starts the HTTP server exposing /metrics and /health.
func (r *Registry) StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"` + r.serviceName + `"}`))
	})

	r.server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	r.logger.Info("starting metrics server", "port", port)
	return r.server.ListenAndServe()
}

// StopMetricsServer gracefully shuts down the metrics HTTP server.
func (r *Registry) StopMetricsServer(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info("stopping metrics server")
	return r.server.Shutdown(ctx)
}

// HTTPMiddleware instruments requests served by a service's own HTTP mux.
func (r *Registry) HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, req)

			duration := time.Since(start)
			status := strconv.Itoa(wrapped.statusCode)
			r.Service.HTTPRequestsTotal.WithLabelValues(req.Method, req.URL.Path, status).Inc()
			r.Service.HTTPRequestDuration.WithLabelValues(req.Method, req.URL.Path).Observe(duration.Seconds())
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
