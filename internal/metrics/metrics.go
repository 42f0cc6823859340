package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for SkyWatch.
// Each registry owns its own prometheus.Registry, so tests can build as many as they like.
type MetricsRegistry struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	ProviderFallbackTotal *prometheus.CounterVec
	SnapshotsWrittenTotal *prometheus.CounterVec
	FetchErrorsTotal      prometheus.Counter
	AlertsTriggeredTotal  prometheus.Counter
	NotificationsTotal    *prometheus.CounterVec
	FetchCycleDuration    prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		registry: reg,

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skywatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skywatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		ProviderFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_provider_fallback_total",
				Help: "Provider stages skipped in favour of the next stage, by reason",
			},
			[]string{"reason"},
		),
		SnapshotsWrittenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_snapshots_written_total",
				Help: "Price snapshots appended, by source",
			},
			[]string{"source"},
		),
		FetchErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_fetch_errors_total",
				Help: "Route/window pairs that failed during a fetch cycle",
			},
		),
		AlertsTriggeredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_alerts_triggered_total",
				Help: "Alerts transitioned to triggered",
			},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_notifications_total",
				Help: "Outbound notifications by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		FetchCycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skywatch_fetch_cycle_duration_seconds",
				Help:    "Fetch cycle execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}
}

// Handler exposes this registry in the Prometheus text format
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mostly for tests
func (m *MetricsRegistry) Registry() *prometheus.Registry {
	return m.registry
}

// The helpers below are nil-safe so components can run without metrics wired.

func (m *MetricsRegistry) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.ProviderFallbackTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsRegistry) RecordSnapshot(source string) {
	if m == nil {
		return
	}
	m.SnapshotsWrittenTotal.WithLabelValues(source).Inc()
}

func (m *MetricsRegistry) RecordCycle(errors, triggered int, duration time.Duration) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.Add(float64(errors))
	m.AlertsTriggeredTotal.Add(float64(triggered))
	m.FetchCycleDuration.Observe(duration.Seconds())
}

func (m *MetricsRegistry) RecordNotification(kind string, sent bool, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	switch {
	case err != nil:
		outcome = "failed"
	case !sent:
		outcome = "skipped"
	}
	m.NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsRegistry) RecordCache(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
