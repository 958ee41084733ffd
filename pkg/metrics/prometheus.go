// Package metrics provides Prometheus metrics for the reqbind service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Request binding
	validationRejections *prometheus.CounterVec
	panicsRecovered      prometheus.Counter

	// Errors by endpoint and class
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exposed through /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reqbind",
		subsystem:        "api",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route pattern, method and status",
			ConstLabels: m.constLabels,
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_in_flight",
		Help:        "Number of HTTP requests currently being served",
		ConstLabels: m.constLabels,
	})

	m.validationRejections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "validation_rejections_total",
			Help:        "Request parameters rejected by binding or validation, by location and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"location", "type"},
	)

	m.panicsRecovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "panics_recovered_total",
		Help:        "Handler panics recovered by middleware",
		ConstLabels: m.constLabels,
	})

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Error responses by error type and severity",
			ConstLabels: m.constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Error responses by route pattern, method and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"route", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest counts a finished request.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// IncInFlight and DecInFlight bracket a request.
func (m *Manager) IncInFlight() { m.httpInFlight.Inc() }
func (m *Manager) DecInFlight() { m.httpInFlight.Dec() }

// RecordValidationRejection counts one rejected parameter.
func (m *Manager) RecordValidationRejection(location, errType string) {
	m.validationRejections.WithLabelValues(location, errType).Inc()
}

// RecordPanicRecovered counts a recovered handler panic.
func (m *Manager) RecordPanicRecovered() { m.panicsRecovered.Inc() }

// RecordError counts an error response for route/method.
func (m *Manager) RecordError(route, method, errorType, severity string) {
	m.errorRateByEndpoint.WithLabelValues(route, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystem sets the system gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int) {
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// RecordGCPause observes an average GC pause.
func (m *Manager) RecordGCPause(pauseMs float64) { m.systemGCPauseTime.Observe(pauseMs) }

// Package-level recorders delegate to the global manager.

// RecordHTTPRequest records HTTP request metrics.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, durationMs)
}

// IncInFlight marks a request as started.
func IncInFlight() { globalManager.IncInFlight() }

// DecInFlight marks a request as finished.
func DecInFlight() { globalManager.DecInFlight() }

// RecordValidationRejection records a rejected request parameter.
func RecordValidationRejection(location, errType string) {
	globalManager.RecordValidationRejection(location, errType)
}

// RecordPanicRecovered records a recovered panic.
func RecordPanicRecovered() { globalManager.RecordPanicRecovered() }

// RecordError records an error response.
func RecordError(route, method, errorType, severity string) {
	globalManager.RecordError(route, method, errorType, severity)
}

// UpdateSystemMemoryUsage updates the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordGCPause(pauseMs) }

// GetRegistry returns the custom registry served at /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
