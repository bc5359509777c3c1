// Package metrics provides Prometheus metrics for the cfinsight dashboard.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	namespace              = "cfinsight"
	subsystem              = "dashboard"
	defaultRefreshInterval = 10 * time.Second
)

// Outcome label values shared by judge and coach metrics.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeTransport   = "transport"
	OutcomeMalformed   = "malformed"
	OutcomeUnavailable = "unavailable"
	OutcomeRateLimited = "rate_limited"
	OutcomeNoKey       = "no_key"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	enabled         atomic.Bool
	refreshInterval atomic.Int64
	registry        prometheus.Registerer

	// Judge API metrics
	judgeRequests       *prometheus.CounterVec
	judgeRequestLatency *prometheus.HistogramVec
	judgeSubmissions    prometheus.Histogram

	// Fetch memo metrics
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheEntries prometheus.Gauge

	// Pipeline metrics
	analyses       *prometheus.CounterVec
	analysisErrors *prometheus.CounterVec

	// Coach metrics
	coachRequests *prometheus.CounterVec
	coachLatency  prometheus.Histogram

	// Sessions
	activeSessions prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{registry: prometheus.DefaultRegisterer}
	m.enabled.Store(true)
	m.refreshInterval.Store(int64(defaultRefreshInterval))

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	latencyBuckets := []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

	m.judgeRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "judge_requests_total",
		Help:      "Requests sent to the judge API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	m.judgeRequestLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "judge_request_duration_milliseconds",
		Help:      "Judge API round-trip time in milliseconds",
		Buckets:   latencyBuckets,
	}, []string{"endpoint"})

	m.judgeSubmissions = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "judge_submissions_per_fetch",
		Help:      "Number of submissions returned per successful history fetch",
		Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fetch_cache_hits_total",
		Help:      "Profile fetches served from the memo",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fetch_cache_misses_total",
		Help:      "Profile fetches that went to the judge API",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fetch_cache_entries",
		Help:      "Handles currently memoized",
	})

	m.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "analyses_total",
		Help:      "Pipeline runs by mode (single, compare)",
	}, []string{"mode"})

	m.analysisErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "analysis_errors_total",
		Help:      "Pipeline runs that ended without data, by mode",
	}, []string{"mode"})

	m.coachRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coach_requests_total",
		Help:      "AI coach generations by outcome",
	}, []string{"outcome"})

	m.coachLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coach_latency_milliseconds",
		Help:      "AI coach generation latency in milliseconds",
		Buckets:   latencyBuckets,
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_sessions",
		Help:      "Dashboard sessions currently tracked",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   latencyBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "errors_by_type_total",
		Help:      "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "error_latency_milliseconds",
		Help:      "Latency of operations that ended in an error",
		Buckets:   latencyBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often gauge updaters should poll.
func (m *Manager) RefreshInterval() time.Duration { return time.Duration(m.refreshInterval.Load()) }

// on reports whether the global manager is recording.
func on() bool { return globalManager.enabled.Load() }

// RecordJudgeRequest counts one judge API call and its latency.
func RecordJudgeRequest(endpoint, outcome string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.judgeRequests.WithLabelValues(endpoint, outcome).Inc()
	globalManager.judgeRequestLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordSubmissionsFetched observes the size of a fetched submission history.
func RecordSubmissionsFetched(n int) {
	if !on() {
		return
	}
	globalManager.judgeSubmissions.Observe(float64(n))
}

// RecordCacheHit increments the fetch memo hit counter.
func RecordCacheHit() {
	if !on() {
		return
	}
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the fetch memo miss counter.
func RecordCacheMiss() {
	if !on() {
		return
	}
	globalManager.cacheMisses.Inc()
}

// UpdateCacheEntries sets the number of memoized handles.
func UpdateCacheEntries(n int) {
	if !on() {
		return
	}
	globalManager.cacheEntries.Set(float64(n))
}

// RecordAnalysis counts one pipeline run for mode.
func RecordAnalysis(mode string) {
	if !on() {
		return
	}
	globalManager.analyses.WithLabelValues(mode).Inc()
}

// RecordAnalysisError counts one pipeline run for mode that produced no data.
func RecordAnalysisError(mode string) {
	if !on() {
		return
	}
	globalManager.analysisErrors.WithLabelValues(mode).Inc()
}

// RecordCoachRequest counts one coach generation and its latency.
func RecordCoachRequest(outcome string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.coachRequests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeNoKey {
		globalManager.coachLatency.Observe(latencyMs)
	}
}

// UpdateActiveSessions sets the number of tracked sessions.
func UpdateActiveSessions(n int) {
	if !on() {
		return
	}
	globalManager.activeSessions.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !on() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !on() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !on() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !on() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !on() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !on() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !on() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !on() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
