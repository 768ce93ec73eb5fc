// Package logging provides structured logging built on log/slog.
//
// The CLI builds a Logger from configuration at startup and installs it
// as the process default. Long-running components (the grammar manager,
// the report recorder, the retention scheduler) derive their own loggers
// from the default:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "text"})
//	if err != nil {
//		return err
//	}
//	logger.SetDefault()
//
//	watchLog := slog.Default().With("component", "grammar.watcher")
//
// Parsing itself never logs; diagnostics are returned as values so callers
// decide how to present them.
package logging
