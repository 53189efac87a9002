package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors the service exposes on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration observes HTTP request latency by route.
	RequestDuration *prometheus.HistogramVec
	// EngineOpsTotal counts engine operations by kind and outcome.
	EngineOpsTotal *prometheus.CounterVec
	// DatasetRecords gauges the size of the active dataset snapshot.
	DatasetRecords prometheus.Gauge
	// DatasetReloads counts snapshot reloads.
	DatasetReloads prometheus.Counter
}

// NewMetrics creates the collectors on a private registry so tests can hold
// independent instances.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtlens",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dtlens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		EngineOpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtlens",
			Name:      "engine_operations_total",
			Help:      "Engine operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
		DatasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "dtlens",
			Name:      "dataset_records",
			Help:      "Records in the active dataset snapshot.",
		}),
		DatasetReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dtlens",
			Name:      "dataset_reloads_total",
			Help:      "Dataset snapshot reloads.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEngineOp records one engine operation outcome.
func (m *Metrics) ObserveEngineOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EngineOpsTotal.WithLabelValues(operation, outcome).Inc()
}
