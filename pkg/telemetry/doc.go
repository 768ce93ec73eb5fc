// Package telemetry provides observability for Ganymede.
//
// # Overview
//
// The telemetry package implements structured logging and Prometheus
// metrics for the grammar toolchain. Checks are short-lived and watch
// sessions are long-lived, so both components work without global
// setup: the CLI installs a logger at startup, and watch mode serves a
// metrics endpoint only when configured.
//
// # Components
//
//   - logging: Structured logging built on log/slog
//   - metrics: Prometheus metrics collection
//
// # Usage
//
//	// Initialize logging
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
//	if err != nil {
//		return err
//	}
//	logger.SetDefault()
//
//	// Record metrics
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	collector.RecordCheck("passed", duration, ruleCount)
//
// # Performance
//
// The telemetry package stays out of the parse path: the parser itself
// never logs or records metrics, so single-file checks pay nothing for
// observability. Metric updates are counter and histogram writes, well
// under a microsecond each.
package telemetry
