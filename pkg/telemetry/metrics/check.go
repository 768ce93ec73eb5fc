package metrics

import (
	"time"

	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultCheckDurationBuckets covers grammar checks, which usually finish
// in well under a millisecond for small files and tens of milliseconds for
// large ones.
var defaultCheckDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1.0}

// CheckMetrics tracks grammar check outcomes.
//
// Metrics:
//   - ganymede_gdl_checks_total: Total checks by outcome
//   - ganymede_gdl_check_duration_seconds: Check duration histogram
//   - ganymede_gdl_diagnostics_total: Total diagnostics by type
//   - ganymede_gdl_rules_parsed_total: Total top-level rules parsed
type CheckMetrics struct {
	checksTotal      *prometheus.CounterVec
	checkDuration    prometheus.Histogram
	diagnosticsTotal *prometheus.CounterVec
	rulesParsedTotal prometheus.Counter
}

// NewCheckMetrics creates and registers check metrics with the provided registry.
func NewCheckMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CheckMetrics {
	cm := &CheckMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checks_total",
				Help:      "Total number of grammar checks by outcome",
			},
			[]string{"status"},
		),

		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "check_duration_seconds",
				Help:      "Grammar check duration in seconds",
				Buckets:   defaultCheckDurationBuckets,
			},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics by type",
			},
			[]string{"type"},
		),

		rulesParsedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_parsed_total",
				Help:      "Total number of top-level rules parsed from valid grammars",
			},
		),
	}

	registry.MustRegister(
		cm.checksTotal,
		cm.checkDuration,
		cm.diagnosticsTotal,
		cm.rulesParsedTotal,
	)

	return cm
}

// RecordCheck records a completed grammar check.
func (cm *CheckMetrics) RecordCheck(status string, duration time.Duration, rules int) {
	cm.checksTotal.WithLabelValues(status).Inc()
	cm.checkDuration.Observe(duration.Seconds())
	if rules > 0 {
		cm.rulesParsedTotal.Add(float64(rules))
	}
}

// RecordDiagnostics records diagnostics of a given type.
func (cm *CheckMetrics) RecordDiagnostics(diagType string, count int) {
	cm.diagnosticsTotal.WithLabelValues(diagType).Add(float64(count))
}
