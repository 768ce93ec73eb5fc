package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/ganymede/pkg/report"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/reports.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "report.storage.sqlite")

	// Open database connection
	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, report.NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	// Initialize database
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite report storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	// Enable WAL mode if configured
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return report.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	// Set busy timeout
	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return report.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	// Create schema
	_, err = s.db.Exec(Schema)
	if err != nil {
		return report.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	// Insert schema version
	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return report.NewStorageError("sqlite", "insert_schema_version", err)
	}

	// Verify schema version
	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return report.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return report.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Store persists a check record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *report.CheckRecord) error {
	// Marshal the diagnostics list
	diagnostics, _ := json.Marshal(record.Diagnostics)

	query := `
		INSERT INTO check_reports (
			id, grammar_path, version,
			status, rule_count, diagnostics, from_cache,
			duration_us, checked_at, recorded_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	// Convert empty strings to NULL for optional fields
	var versionVal interface{}
	if record.Version == "" {
		versionVal = nil
	} else {
		versionVal = record.Version
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.GrammarPath, versionVal,
		record.Status, record.RuleCount, string(diagnostics), record.FromCache,
		record.Duration.Microseconds(), record.CheckedAt, record.RecordedAt,
	)

	if err != nil {
		return report.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves check records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *report.Query) ([]*report.CheckRecord, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT * FROM check_reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += s.buildOrderClause(query)
	sqlQuery += s.buildLimitClause(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, report.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*report.CheckRecord{}
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, report.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, report.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// QueryStream returns a channel of check records for memory-efficient streaming.
// Use this for large result sets to avoid loading everything in memory.
// The channels will be closed when the query completes or errors.
func (s *SQLiteStorage) QueryStream(ctx context.Context, query *report.Query) (<-chan *report.CheckRecord, <-chan error, error) {
	recordsCh := make(chan *report.CheckRecord, 100) // Buffer 100 records
	errCh := make(chan error, 1)

	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT * FROM check_reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += s.buildOrderClause(query)
	sqlQuery += s.buildLimitClause(query)

	// Stream results in a goroutine
	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- report.NewStorageError("sqlite", "query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			// Check for context cancellation
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			record, err := s.scanRow(rows)
			if err != nil {
				errCh <- report.NewStorageError("sqlite", "scan", err)
				return
			}

			// Send record to channel (also check for context cancellation)
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- report.NewStorageError("sqlite", "query_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of check records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *report.Query) (int64, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM check_reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, report.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes check records matching the query filters.
// Returns the number of records deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, query *report.Query) (int64, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "DELETE FROM check_reports"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, report.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, report.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return report.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite report storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func (s *SQLiteStorage) buildWhereClause(query *report.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	// Grammar path filter
	if query.GrammarPath != "" {
		conditions = append(conditions, "grammar_path = ?")
		args = append(args, query.GrammarPath)
	}

	// Status filter
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}

	// Time range filter
	if query.Since != nil {
		conditions = append(conditions, "checked_at >= ?")
		args = append(args, *query.Since)
	}
	if query.Until != nil {
		conditions = append(conditions, "checked_at <= ?")
		args = append(args, *query.Until)
	}

	// Join conditions with AND
	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// buildOrderClause builds the ORDER BY clause. Records are always ordered
// by check time; only the direction is configurable.
func (s *SQLiteStorage) buildOrderClause(query *report.Query) string {
	sortOrder := "DESC"
	if query.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	return " ORDER BY checked_at " + sortOrder
}

// buildLimitClause builds the LIMIT and OFFSET clauses.
func (s *SQLiteStorage) buildLimitClause(query *report.Query) string {
	limit := 100
	if query.Limit > 0 {
		limit = query.Limit
	}
	clause := fmt.Sprintf(" LIMIT %d", limit)

	if query.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", query.Offset)
	}
	return clause
}

// scanRow scans a database row into a CheckRecord.
func (s *SQLiteStorage) scanRow(row *sql.Rows) (*report.CheckRecord, error) {
	var record report.CheckRecord
	var versionVal, diagnosticsVal sql.NullString
	var durationUs int64

	err := row.Scan(
		&record.ID, &record.GrammarPath, &versionVal,
		&record.Status, &record.RuleCount, &diagnosticsVal, &record.FromCache,
		&durationUs, &record.CheckedAt, &record.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert NULL strings back to empty strings
	if versionVal.Valid {
		record.Version = versionVal.String
	}

	// Unmarshal the diagnostics list
	if diagnosticsVal.Valid && diagnosticsVal.String != "" {
		json.Unmarshal([]byte(diagnosticsVal.String), &record.Diagnostics)
	}

	// Convert duration from microseconds
	record.Duration = time.Duration(durationUs) * time.Microsecond

	return &record, nil
}
