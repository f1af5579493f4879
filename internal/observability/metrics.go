package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics exposes the service's Prometheus collectors.
type Metrics struct {
	RequestCount       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ErrorCount         *prometheus.CounterVec
	AssignmentOutcomes *prometheus.CounterVec
	RoutingConflicts   prometheus.Counter
	ClassifierFailures prometheus.Counter
}

// NewMetrics registers collectors on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"path", "method", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		ErrorCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of HTTP requests resolved to a domain error",
		}, []string{"path", "method", "code"}),
		AssignmentOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_assignments_total",
			Help: "Auto-routing outcomes per ticket",
		}, []string{"outcome"}),
		RoutingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "routing_load_conflicts_total",
			Help: "Agent load CAS retries caused by concurrent modification",
		}),
		ClassifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "classifier_failures_total",
			Help: "Classifier calls recovered via local fallback",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorCount.WithLabelValues(path, method, code).Inc()
}

// RecordAssignment tracks an auto-routing outcome: assigned, unassigned or conflict.
func (m *Metrics) RecordAssignment(outcome string) {
	if m == nil {
		return
	}
	m.AssignmentOutcomes.WithLabelValues(outcome).Inc()
}

// RecordRoutingConflict counts one CAS retry on agent load.
func (m *Metrics) RecordRoutingConflict() {
	if m == nil {
		return
	}
	m.RoutingConflicts.Inc()
}

// RecordClassifierFailure counts one recovered classifier failure.
func (m *Metrics) RecordClassifierFailure() {
	if m == nil {
		return
	}
	m.ClassifierFailures.Inc()
}

// ServeMetrics runs the Prometheus scrape endpoint on its own listener
// until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", zap.Error(err))
	}
}
