// Package report provides durable check reporting for grammar files. Every
// check a tool runs can be persisted as an immutable CheckRecord so that
// grammar health over time is queryable, exportable, and prunable.
//
// # Architecture
//
// The report system consists of three layers:
//
//  1. Recorder - Persists check outcomes without blocking the checker
//  2. Storage Backend - Holds check records (SQLite or in-memory)
//  3. Export / Retention - Serializes records and enforces retention
//
// # Check Records
//
// Each check record captures:
//   - The grammar file path and content version (SHA-256)
//   - The outcome status ("passed", "failed", "error")
//   - Every diagnostic produced, with positions and suggestions
//   - Rule count, cache provenance, and timing
//
// # Basic Usage
//
//	// Initialize storage backend
//	backend, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:    "data/reports.db",
//	    WALMode: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	// Create recorder
//	rec := recorder.NewRecorder(backend, &recorder.Config{
//	    Enabled:     true,
//	    AsyncBuffer: 1000,
//	}, logger)
//	defer rec.Close()
//
//	// Record a check outcome (async, non-blocking)
//	rec.Record(ctx, &report.CheckRecord{
//	    GrammarPath: "grammars/json.gdl",
//	    Status:      "passed",
//	    RuleCount:   12,
//	    CheckedAt:   time.Now(),
//	})
//
// # Querying Records
//
//	q := &report.Query{
//	    GrammarPath: "grammars/json.gdl",
//	    Status:      "failed",
//	    Since:       &since,
//	    Limit:       100,
//	}
//	records, err := backend.Query(ctx, q)
//
// # Export
//
//	exporter := export.NewJSONExporter(true) // pretty-print
//	exporter.Export(ctx, records, os.Stdout)
//
// # Retention
//
// Old records can be pruned on a schedule:
//
//	pruner := retention.NewPruner(backend, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *", // daily at 3 AM
//	}, logger)
//	pruner.Start(ctx)
//	defer pruner.Stop()
//
// # Thread Safety
//
// All report types are safe for concurrent use. The recorder hands records
// to a background worker over a buffered channel; storage backends guard
// their state internally.
package report
