// Package metrics exposes Prometheus metrics for the console: HTTP traffic,
// registry loads, draft submissions, and lifecycle actions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the console.
type Metrics struct {
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	RegistryLoadsTotal *prometheus.CounterVec
	RegistryEntities   *prometheus.GaugeVec

	DraftSubmissionsTotal *prometheus.CounterVec
	LifecycleActionsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a Metrics instance with all metrics registered on its own
// registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phishdeck_http_requests_total",
				Help: "Total number of console HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phishdeck_http_request_duration_seconds",
				Help:    "Console HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RegistryLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phishdeck_registry_loads_total",
				Help: "Total number of registry bulk loads by outcome",
			},
			[]string{"outcome"},
		),
		RegistryEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "phishdeck_registry_entities",
				Help: "Number of entities currently held per kind",
			},
			[]string{"kind"},
		),
		DraftSubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phishdeck_draft_submissions_total",
				Help: "Total number of draft submissions by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		LifecycleActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phishdeck_lifecycle_actions_total",
				Help: "Total number of campaign lifecycle actions by outcome",
			},
			[]string{"action", "outcome"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.RegistryLoadsTotal,
		m.RegistryEntities,
		m.DraftSubmissionsTotal,
		m.LifecycleActionsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRegistryLoad records the outcome of a bulk load.
func (m *Metrics) ObserveRegistryLoad(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.RegistryLoadsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSubmission records a draft submission.
func (m *Metrics) ObserveSubmission(edit bool, err error) {
	mode := "create"
	if edit {
		mode = "update"
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.DraftSubmissionsTotal.WithLabelValues(mode, outcome).Inc()
}

// ObserveLifecycleAction records a lifecycle action.
func (m *Metrics) ObserveLifecycleAction(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.LifecycleActionsTotal.WithLabelValues(action, outcome).Inc()
}
