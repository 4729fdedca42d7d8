// Package metrics provides Prometheus metrics for the medal dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset lifecycle
	uploadsAccepted  prometheus.Counter
	uploadsRejected  prometheus.Counter
	uploadDuration   prometheus.Histogram
	datasetRows      prometheus.Gauge
	datasetYears     prometheus.Gauge
	datasetCountries prometheus.Gauge

	// Aggregation pipeline
	aggregateDuration prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cacheEntries      prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Outputs
	exports        *prometheus.CounterVec
	chartsRendered *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medals",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.uploadsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploads_accepted_total",
		Help:      "Total number of CSV uploads that replaced the dataset",
	})

	m.uploadsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploads_rejected_total",
		Help:      "Total number of CSV uploads rejected by validation",
	})

	m.uploadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_duration_milliseconds",
		Help:      "Histogram of CSV parse, validate and store duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Rows in the current dataset",
	})

	m.datasetYears = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_years",
		Help:      "Distinct games years in the current dataset",
	})

	m.datasetCountries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_countries",
		Help:      "Distinct countries in the current dataset",
	})

	m.aggregateDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_duration_milliseconds",
		Help:      "Histogram of aggregation pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_cache_hits_total",
		Help:      "Total number of aggregate cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_cache_misses_total",
		Help:      "Total number of aggregate cache misses",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_cache_entries",
		Help:      "Current number of cached aggregate results",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.exports = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "exports_total",
			Help:      "Total number of CSV exports served, by export name",
		},
		[]string{"export"},
	)

	m.chartsRendered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "charts_rendered_total",
			Help:      "Total number of chart pages rendered, by chart",
		},
		[]string{"chart"},
	)
}

// RecordUploadAccepted increments the accepted uploads counter.
func RecordUploadAccepted() {
	globalManager.uploadsAccepted.Inc()
}

// RecordUploadRejected increments the rejected uploads counter.
func RecordUploadRejected() {
	globalManager.uploadsRejected.Inc()
}

// RecordUploadDuration records the upload processing duration in milliseconds.
func RecordUploadDuration(latencyMs float64) {
	globalManager.uploadDuration.Observe(latencyMs)
}

// UpdateDatasetStats sets the current dataset gauges.
func UpdateDatasetStats(rows, years, countries int) {
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetYears.Set(float64(years))
	globalManager.datasetCountries.Set(float64(countries))
}

// RecordAggregateDuration records aggregation duration in milliseconds.
func RecordAggregateDuration(latencyMs float64) {
	globalManager.aggregateDuration.Observe(latencyMs)
}

// RecordCacheHit increments the aggregate cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the aggregate cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheEntries sets the current aggregate cache size.
func UpdateCacheEntries(entries int) {
	globalManager.cacheEntries.Set(float64(entries))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordExport increments the export counter for the named export.
func RecordExport(name string) {
	globalManager.exports.WithLabelValues(name).Inc()
}

// RecordChartRender increments the render counter for the named chart.
func RecordChartRender(chart string) {
	globalManager.chartsRendered.WithLabelValues(chart).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
