// Package metrics provides Prometheus metrics for the worthboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are in milliseconds; full community pulls take minutes.
var latencyBuckets = []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000, 15000, 60000, 180000} //nolint:gochecknoglobals // bucket layout

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Upstream API
	upstreamRequests *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	pagesFetched     *prometheus.CounterVec
	recordsPulled    *prometheus.CounterVec
	authFailures     prometheus.Counter

	// Cache
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge

	// Pipelines
	pipelineRuns    *prometheus.CounterVec
	pipelineLatency *prometheus.HistogramVec
	rowsRanked      *prometheus.HistogramVec
	warnings        *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "worthboard",
		subsystem:        "",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Requests sent to the community platform API", "endpoint")
	m.upstreamErrors = m.counterVec("upstream_errors_total",
		"Failed requests to the community platform API", "endpoint", "reason")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"Latency of community platform API requests", m.histogramBuckets, "endpoint")
	m.pagesFetched = m.counterVec("pages_fetched_total",
		"Pages fetched during pagination", "resource")
	m.recordsPulled = m.counterVec("records_pulled_total",
		"Raw records received from the platform", "resource")
	m.authFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "auth_failures_total", Help: "Rejected token/email pairs",
	})

	m.cacheHits = m.counterVec("cache_hits_total", "Memoized pull results reused", "query")
	m.cacheMisses = m.counterVec("cache_misses_total", "Pulls that had to hit the API", "query")
	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_evictions_total", Help: "Entries evicted for capacity",
	})
	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_entries", Help: "Entries currently held by the pull cache",
	})

	m.pipelineRuns = m.counterVec("pipeline_runs_total", "Leaderboard computations", "kind")
	m.pipelineLatency = m.histogramVec("pipeline_latency_milliseconds",
		"Filter, score and rank latency excluding pulls", m.histogramBuckets, "kind")
	m.rowsRanked = m.histogramVec("pipeline_rows",
		"Rows entering the ranking stage", prometheus.ExponentialBuckets(1, 4, 8), "kind")
	m.warnings = m.counterVec("warnings_total", "Non-fatal warnings returned to callers", "code")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("http_errors_total",
		"HTTP error responses by endpoint, method and error type", "endpoint", "method", "error_type")
}

// RecordUpstreamRequest counts an API request and its latency.
func RecordUpstreamRequest(endpoint string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordUpstreamError counts a failed API request.
func RecordUpstreamError(endpoint, reason string) {
	globalManager.upstreamErrors.WithLabelValues(endpoint, reason).Inc()
}

// RecordPageFetched counts one page and the records it carried.
func RecordPageFetched(resource string, records int) {
	globalManager.pagesFetched.WithLabelValues(resource).Inc()
	globalManager.recordsPulled.WithLabelValues(resource).Add(float64(records))
}

// RecordAuthFailure counts a rejected credential exchange.
func RecordAuthFailure() {
	globalManager.authFailures.Inc()
}

// RecordCacheHit counts a memoized result served for query.
func RecordCacheHit(query string) {
	globalManager.cacheHits.WithLabelValues(query).Inc()
}

// RecordCacheMiss counts a pull that was not memoized.
func RecordCacheMiss(query string) {
	globalManager.cacheMisses.WithLabelValues(query).Inc()
}

// RecordCacheEviction counts a capacity eviction.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCacheEntries sets the number of live cache entries.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// RecordPipeline counts one leaderboard computation.
func RecordPipeline(kind string, rows int, latencyMs float64) {
	globalManager.pipelineRuns.WithLabelValues(kind).Inc()
	globalManager.rowsRanked.WithLabelValues(kind).Observe(float64(rows))
	globalManager.pipelineLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordWarning counts a warning returned to a caller.
func RecordWarning(code string) {
	globalManager.warnings.WithLabelValues(code).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
