package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one service.
type Metrics struct {
	registry         *prometheus.Registry
	requestCount     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errorCount       *prometheus.CounterVec
	authzDecisions   *prometheus.CounterVec
	authzDuration    prometheus.Histogram
	tenantEventCount *prometheus.CounterVec
}

// NewMetrics registers the service collectors on a dedicated registry.
func NewMetrics(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_errors_total",
			Help:        "Total number of error responses by error code",
			ConstLabels: constLabels,
		}, []string{"method", "path", "code"}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "authz_decisions_total",
			Help:        "Authorization decisions by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		authzDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "authz_duration_seconds",
			Help:        "Time spent in the authorization chain",
			ConstLabels: constLabels,
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		tenantEventCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tenant_events_total",
			Help:        "Tenant lifecycle events published",
			ConstLabels: constLabels,
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.authzDecisions,
		m.authzDuration,
		m.tenantEventCount,
		collectors.NewGoCollector(),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestCount.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(method, path, code).Inc()
}

// RecordAuthorization tracks one authorization decision. outcome is "authorized" or a denial reason.
func (m *Metrics) RecordAuthorization(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.authzDecisions.WithLabelValues(outcome).Inc()
	m.authzDuration.Observe(duration.Seconds())
}

// RecordTenantEvent counts published tenant lifecycle events.
func (m *Metrics) RecordTenantEvent(eventType string) {
	if m == nil {
		return
	}
	m.tenantEventCount.WithLabelValues(eventType).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
