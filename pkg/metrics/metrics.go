// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the classification pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/intake/pkg/middleware"
)

const namespace = "intake"

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	classificationsTotal *prometheus.CounterVec
	failuresTotal        *prometheus.CounterVec
	pagesProcessed       prometheus.Histogram
	stageDuration        *prometheus.HistogramVec
}

// New creates Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Number of in-flight HTTP requests.",
			},
		),
		classificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "classification",
				Name:      "results_total",
				Help:      "Successful classifications by document type.",
			},
			[]string{"document_type"},
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "failures_total",
				Help:      "Pipeline failures by stage.",
			},
			[]string{"stage"},
		),
		pagesProcessed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "conversion",
				Name:      "pages",
				Help:      "Pages rendered per uploaded document.",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage in seconds.",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.inFlight,
		m.classificationsTotal,
		m.failuresTotal,
		m.pagesProcessed,
		m.stageDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts, durations, and in-flight requests.
// Paths are labelled by the matched ServeMux pattern to bound cardinality.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			rec := middleware.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.Status)).Inc()
			m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveClassification counts a successful classification.
func (m *Metrics) ObserveClassification(documentType string) {
	m.classificationsTotal.WithLabelValues(documentType).Inc()
}

// ObserveFailure counts a pipeline failure at the named stage.
func (m *Metrics) ObserveFailure(stage string) {
	m.failuresTotal.WithLabelValues(stage).Inc()
}

// ObservePages records the page count of a converted document.
func (m *Metrics) ObservePages(count int) {
	m.pagesProcessed.Observe(float64(count))
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ClassificationCount returns the collector for a document type, for tests
// and diagnostics.
func (m *Metrics) ClassificationCount(documentType string) prometheus.Counter {
	return m.classificationsTotal.WithLabelValues(documentType)
}

// FailureCount returns the failure collector for a stage.
func (m *Metrics) FailureCount(stage string) prometheus.Counter {
	return m.failuresTotal.WithLabelValues(stage)
}
