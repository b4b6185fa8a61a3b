package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the provisioner
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Schema Metrics
	SchemaStepsTotal       *prometheus.CounterVec
	ProvisionRunsTotal     *prometheus.CounterVec
	ProvisionRunDuration   prometheus.Histogram
	SchemaHealthy          prometheus.Gauge
	LastProvisionTimestamp prometheus.Gauge

	// Maintenance Metrics
	DocumentsAffectedTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetricsRegistry initializes a MetricsRegistry on a private registry so
// one-shot commands can push it and tests can build as many as they like.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newMetricsRegistry(reg, reg)
}

func newMetricsRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		gatherer: gatherer,

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveairlines_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liveairlines_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveairlines_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Schema Metrics
		SchemaStepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveairlines_schema_steps_total",
				Help: "Provisioning steps by kind, collection and outcome",
			},
			[]string{"kind", "collection", "outcome"},
		),
		ProvisionRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveairlines_provision_runs_total",
				Help: "Provisioning runs by final status",
			},
			[]string{"status"},
		),
		ProvisionRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "liveairlines_provision_run_duration_seconds",
				Help:    "Provisioning run time in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		SchemaHealthy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "liveairlines_schema_healthy",
				Help: "1 when the last verification found the full schema in place",
			},
		),
		LastProvisionTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "liveairlines_last_provision_timestamp_seconds",
				Help: "Unix time of the last successful provisioning run",
			},
		),

		// Maintenance Metrics
		DocumentsAffectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveairlines_documents_affected_total",
				Help: "Documents inserted or deleted by maintenance commands",
			},
			[]string{"operation", "collection"},
		),
	}
}

// Gatherer exposes the underlying registry for promhttp and the Pushgateway.
func (m *MetricsRegistry) Gatherer() prometheus.Gatherer {
	return m.gatherer
}
