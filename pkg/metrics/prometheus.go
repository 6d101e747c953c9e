// Package metrics provides Prometheus metrics for the courtside scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the courtside service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics - the event log is what matters here.
	eventsAppended       *prometheus.CounterVec
	validationRejections prometheus.Counter
	undoNoops            prometheus.Counter
	matchesStarted       prometheus.Counter
	matchesEnded         prometheus.Counter

	// Replay / projection metrics.
	replaysTotal      prometheus.Counter
	eventsReplayed    prometheus.Counter
	projectionLatency prometheus.Histogram

	// Storage metrics.
	storeAppendLatency prometheus.Histogram
	storeErrors        prometheus.Counter

	// Operational health metrics.
	activeMatches prometheus.Gauge

	// HTTP performance metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "courtside",
		subsystem:        "match",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsAppended = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_appended_total",
		Help:      "Number of events appended to match logs, by event type.",
	}, []string{"type"})

	m.validationRejections = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_rejections_total",
		Help:      "Number of candidate scoring events rejected by the rule engine.",
	})

	m.undoNoops = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undo_noops_total",
		Help:      "Number of undo requests that found no goal to reverse.",
	})

	m.matchesStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_started_total",
		Help:      "Number of matches started.",
	})

	m.matchesEnded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_ended_total",
		Help:      "Number of matches that reached the ended state.",
	})

	m.replaysTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replays_total",
		Help:      "Number of full event-log replays performed.",
	})

	m.eventsReplayed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_replayed_total",
		Help:      "Number of events folded during replays.",
	})

	m.projectionLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projection_latency_ms",
		Help:      "Latency of projecting match state from the event log in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.storeAppendLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_append_latency_ms",
		Help:      "Latency of appending an event to the store in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Number of storage failures surfaced to callers.",
	})

	m.activeMatches = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_matches",
		Help:      "Number of matches currently held in memory.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

// RecordEventAppended increments the appended-events counter for an event type.
func RecordEventAppended(eventType string) {
	globalManager.eventsAppended.WithLabelValues(eventType).Inc()
}

// RecordValidationRejection increments the rejection counter.
func RecordValidationRejection() {
	globalManager.validationRejections.Inc()
}

// RecordUndoNoop increments the undo no-op counter.
func RecordUndoNoop() {
	globalManager.undoNoops.Inc()
}

// RecordMatchStarted increments the started-matches counter.
func RecordMatchStarted() {
	globalManager.matchesStarted.Inc()
}

// RecordMatchEnded increments the ended-matches counter.
func RecordMatchEnded() {
	globalManager.matchesEnded.Inc()
}

// RecordReplay records a full replay folding n events.
func RecordReplay(n int) {
	globalManager.replaysTotal.Inc()
	globalManager.eventsReplayed.Add(float64(n))
}

// RecordProjectionLatency observes projection latency in milliseconds.
func RecordProjectionLatency(ms float64) {
	globalManager.projectionLatency.Observe(ms)
}

// RecordStoreAppendLatency observes store append latency in milliseconds.
func RecordStoreAppendLatency(ms float64) {
	globalManager.storeAppendLatency.Observe(ms)
}

// RecordStoreError increments the storage failure counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateActiveMatches sets the in-memory match gauge.
func UpdateActiveMatches(n int) {
	globalManager.activeMatches.Set(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
