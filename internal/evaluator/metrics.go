package evaluator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the evaluation pipeline on a private registry so
// parallel service instances never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	riskScores  prometheus.Histogram
	duration    prometheus.Histogram
}

// NewMetrics builds the instrument set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskcore",
			Name:      "evaluations_total",
			Help:      "Transfer evaluations by outcome.",
		}, []string{"outcome"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskcore",
			Name:      "rejections_total",
			Help:      "Rejected evaluations by reason.",
		}, []string{"reason"}),
		riskScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskcore",
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 15),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskcore",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of a full evaluation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the private registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeOutcome(approved bool) {
	outcome := "approved"
	if !approved {
		outcome = "rejected"
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeRiskScore(score int) {
	m.riskScores.Observe(float64(score))
}

func (m *Metrics) observeDuration(seconds float64) {
	m.duration.Observe(seconds)
}
