package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteCache implements Cache using SQLite, so check outcomes survive
// process restarts.
//
// The database runs in write-ahead log (WAL) mode with a background
// checkpoint loop, and the connection pool is limited to a single
// connection because SQLite supports only one writer.
type SQLiteCache struct {
	db                 *sql.DB
	dbPath             string
	maxEntries         int
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	getStmt   *sql.Stmt
	putStmt   *sql.Stmt
	lenStmt   *sql.Stmt
	evictStmt *sql.Stmt
}

// SQLiteCacheConfig configures the SQLite cache backend.
type SQLiteCacheConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// MaxEntries is the entry count above which the oldest entries are
	// evicted. Zero or less means unbounded.
	MaxEntries int

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteCache creates a new SQLite cache with default settings.
func NewSQLiteCache(dbPath string, maxEntries int) (*SQLiteCache, error) {
	return NewSQLiteCacheWithConfig(SQLiteCacheConfig{
		DBPath:             dbPath,
		MaxEntries:         maxEntries,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteCacheWithConfig creates a new SQLite cache with custom
// configuration.
func NewSQLiteCacheWithConfig(cfg SQLiteCacheConfig) (*SQLiteCache, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	c := &SQLiteCache{
		db:                 db,
		dbPath:             cfg.DBPath,
		maxEntries:         cfg.MaxEntries,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := c.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go c.checkpointLoop()

	return c, nil
}

// initSchema creates the database schema if it doesn't exist.
func (c *SQLiteCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parse_cache (
		key TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		rule_count INTEGER NOT NULL,
		diagnostics TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parse_cache_created_at ON parse_cache(created_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (c *SQLiteCache) prepareStatements() error {
	var err error

	c.getStmt, err = c.db.Prepare(`
		SELECT key, path, status, rule_count, diagnostics, created_at
		FROM parse_cache
		WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	c.putStmt, err = c.db.Prepare(`
		INSERT INTO parse_cache (key, path, status, rule_count, diagnostics, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			path = excluded.path,
			status = excluded.status,
			rule_count = excluded.rule_count,
			diagnostics = excluded.diagnostics,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	c.lenStmt, err = c.db.Prepare(`SELECT COUNT(*) FROM parse_cache`)
	if err != nil {
		return fmt.Errorf("failed to prepare len statement: %w", err)
	}

	c.evictStmt, err = c.db.Prepare(`
		DELETE FROM parse_cache
		WHERE key IN (
			SELECT key FROM parse_cache ORDER BY created_at ASC LIMIT ?
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare evict statement: %w", err)
	}

	return nil
}

// Get returns the entry for a key.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key cannot be empty")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		entry       Entry
		diagnostics sql.NullString
		createdAt   int64
	)

	err := c.getStmt.QueryRowContext(ctx, key).Scan(
		&entry.Key,
		&entry.Path,
		&entry.Status,
		&entry.RuleCount,
		&diagnostics,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load entry: %w", err)
	}

	if diagnostics.Valid && diagnostics.String != "" {
		entry.Diagnostics = []byte(diagnostics.String)
	}
	// Nanosecond resolution keeps eviction order stable within a second
	entry.CreatedAt = time.Unix(0, createdAt)

	return &entry, true, nil
}

// Put stores an entry, evicting the oldest entries when the cache is
// over capacity.
func (c *SQLiteCache) Put(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.putStmt.ExecContext(ctx,
		entry.Key,
		entry.Path,
		entry.Status,
		entry.RuleCount,
		string(entry.Diagnostics),
		createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	return c.evictLocked(ctx)
}

// evictLocked removes the oldest entries until the cache is within
// capacity. Callers must hold the write lock.
func (c *SQLiteCache) evictLocked(ctx context.Context) error {
	if c.maxEntries <= 0 {
		return nil
	}

	var count int
	if err := c.lenStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}

	if count <= c.maxEntries {
		return nil
	}

	if _, err := c.evictStmt.ExecContext(ctx, count-c.maxEntries); err != nil {
		return fmt.Errorf("failed to evict entries: %w", err)
	}

	return nil
}

// Len returns the number of cached entries.
func (c *SQLiteCache) Len(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var count int
	if err := c.lenStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

// Close releases any resources held by the cache.
// Close is idempotent and safe to call multiple times.
func (c *SQLiteCache) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		close(c.done)

		if c.getStmt != nil {
			c.getStmt.Close()
		}
		if c.putStmt != nil {
			c.putStmt.Close()
		}
		if c.lenStmt != nil {
			c.lenStmt.Close()
		}
		if c.evictStmt != nil {
			c.evictStmt.Close()
		}

		if c.db != nil {
			// Run final checkpoint
			_, _ = c.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = c.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (c *SQLiteCache) checkpointLoop() {
	ticker := time.NewTicker(c.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = c.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-c.done:
			return
		}
	}
}
