package mcp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

// Metrics counts evaluations served by a [Server].
type Metrics struct {
	registry     *prometheus.Registry
	evaluations  *prometheus.CounterVec
	failedChecks *prometheus.CounterVec
	errors       prometheus.Counter
}

// NewMetrics creates [Metrics] in a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compass",
			Name:      "evaluations_total",
			Help:      "Number of completed evaluations.",
		}, []string{"standard"}),
		failedChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compass",
			Name:      "failed_checks_total",
			Help:      "Number of failed checks across evaluations.",
		}, []string{"standard"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compass",
			Name:      "evaluation_errors_total",
			Help:      "Number of evaluations rejected before any check ran.",
		}),
	}

	m.registry.MustRegister(m.evaluations, m.failedChecks, m.errors)

	return m
}

// Observe records a completed evaluation.
func (m *Metrics) Observe(std standard.Standard, results rule.Results) {
	m.evaluations.WithLabelValues(std.String()).Inc()
	m.failedChecks.WithLabelValues(std.String()).Add(float64(len(results.Failed())))
}

// ObserveError records a rejected evaluation.
func (m *Metrics) ObserveError() {
	m.errors.Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
