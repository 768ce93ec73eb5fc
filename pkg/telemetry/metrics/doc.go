// Package metrics provides Prometheus instrumentation for grammar
// checking, watch mode, and the parse cache.
//
// A single Collector owns the registry and all metric families. The watch
// command serves the exposition endpoint; one-shot commands may record
// into a collector without ever serving it.
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	collector.RecordCheck("passed", elapsed, grammar.RuleCount())
//
// Metric names follow the <namespace>_<subsystem>_<name> convention,
// "ganymede_gdl" by default.
package metrics
