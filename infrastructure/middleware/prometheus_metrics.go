// Package middleware provides cross-cutting concerns for the scoring engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asherv/festrank/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of leaderboard builds:
// throughput, attribution quality, and ranking latency.
type PrometheusMetrics struct {
	buildLatency      *prometheus.HistogramVec
	resultsProcessed  *prometheus.CounterVec
	winnersAttributed *prometheus.CounterVec
	winnersUnresolved *prometheus.CounterVec
	teamsRanked       *prometheus.GaugeVec
	operationCounter  *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// all metrics with the given registerer. A nil registerer falls back to
// the global default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		buildLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leaderboard_build_duration_seconds",
				Help:    "Time spent folding results into ranked standings.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "filter"},
		),
		resultsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_results_processed_total",
				Help: "Published results that survived the category filter.",
			},
			[]string{"filter"},
		),
		winnersAttributed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_winners_attributed_total",
				Help: "Winner entries that credited points to a team bucket.",
			},
			[]string{"filter"},
		),
		winnersUnresolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_winners_unresolved_total",
				Help: "Winner entries dropped for unresolvable chest numbers or unknown team codes.",
			},
			[]string{"filter"},
		),
		teamsRanked: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "leaderboard_teams_ranked",
				Help: "Number of teams in the most recently built leaderboard.",
			},
			[]string{"filter"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_operations_total",
				Help: "Total number of scoring engine operations by outcome.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.buildLatency.WithLabelValues(operation, filterLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Metrics the engine emits by name are routed to
// their dedicated counters; anything else lands in the generic operation
// counter.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	filter := filterLabel(labels)

	switch metric {
	case "leaderboard_results_processed":
		pm.resultsProcessed.WithLabelValues(filter).Add(value)
	case "leaderboard_winners_attributed":
		pm.winnersAttributed.WithLabelValues(filter).Add(value)
	case "leaderboard_winners_unresolved":
		pm.winnersUnresolved.WithLabelValues(filter).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, "success").Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	switch metric {
	case "leaderboard_teams_ranked":
		pm.teamsRanked.WithLabelValues(filterLabel(labels)).Set(value)
	}
}

// filterLabel extracts the category-filter label, defaulting to unknown
// so label cardinality stays bounded.
func filterLabel(labels map[string]string) string {
	if f, ok := labels["filter"]; ok && f != "" {
		return f
	}
	return "unknown"
}
