// Package storage provides storage backends for check records.
//
// # Storage Backends
//
// The package provides two implementations of the report.Storage interface:
//
//   - SQLite: Embedded database for durable report history
//   - Memory: In-memory storage for testing
//
// # SQLite Backend
//
// The SQLite backend provides durable storage with:
//
//   - WAL mode for concurrent reads/writes
//   - Indexes on frequently queried fields (checked_at, grammar_path, status)
//   - Connection pooling for concurrent access
//   - Busy timeout for handling locks
//
// # Basic Usage
//
//	backend, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:         "data/reports.db",
//	    MaxOpenConns: 10,
//	    MaxIdleConns: 5,
//	    WALMode:      true,
//	    BusyTimeout:  5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	err = backend.Store(ctx, record)
//
//	records, err := backend.Query(ctx, &report.Query{
//	    GrammarPath: "grammars/json.gdl",
//	    Limit:       100,
//	})
//
// # Thread Safety
//
// Both backends are safe for concurrent use. Store can be called
// concurrently with Query; WAL mode keeps readers and writers from
// blocking each other.
//
// # Schema Migration
//
// The SQLite backend initializes its schema on first use and records the
// schema version in the schema_version table for future migrations.
package storage
