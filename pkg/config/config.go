package config

import "time"

// Config is the root configuration structure for Ganymede.
// It contains all configuration sections for grammar checking, file
// watching, parse caching, check reports, logging, and metrics.
type Config struct {
	// Check contains parser limits applied when reading grammar files.
	Check CheckConfig `yaml:"check"`

	// Watch contains file-watching configuration for watch mode.
	Watch WatchConfig `yaml:"watch"`

	// Cache contains parse cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// Reports contains check report recording and retention configuration.
	Reports ReportsConfig `yaml:"reports"`

	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// CheckConfig contains parser limits for grammar checking.
type CheckConfig struct {
	// MaxFileSize is the maximum grammar file size in bytes.
	// Files larger than this are rejected before parsing.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxDepth is the maximum rule nesting depth.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`
}

// WatchConfig contains file-watching configuration.
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a recheck.
	// Rapid successive writes within this window collapse into one event.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions is the list of file extensions to watch.
	// Default: [".gdl"]
	Extensions []string `yaml:"extensions"`

	// IncludeHidden watches hidden files and directories as well.
	// Default: false
	IncludeHidden bool `yaml:"include_hidden"`
}

// CacheConfig contains parse cache configuration.
type CacheConfig struct {
	// Enabled controls whether parse results are cached by content hash.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the cache backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the database file path when Backend is "sqlite".
	// Default: "data/parse-cache.db"
	Path string `yaml:"path"`

	// MaxEntries is the maximum number of cached parse results.
	// Oldest entries are evicted when the limit is reached.
	// 0 means unlimited.
	// Default: 1024
	MaxEntries int `yaml:"max_entries"`
}

// ReportsConfig contains check report configuration.
type ReportsConfig struct {
	// Enabled controls whether check runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the report storage backend.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the database file path when Backend is "sqlite".
	// Default: "data/reports.db"
	Path string `yaml:"path"`

	// Recorder contains async report recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains report retention configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// RecorderConfig contains async report recorder configuration.
type RecorderConfig struct {
	// Buffer is the size of the async write channel.
	// Default: 256
	Buffer int `yaml:"buffer"`

	// WriteTimeout is the timeout for writing a report to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains report retention configuration.
type RetentionConfig struct {
	// Days is the number of days to retain check reports.
	// 0 means keep reports forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of reports to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning in watch mode.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// ArchiveBeforeDelete enables archiving reports to JSON before deletion.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archived reports.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served in watch mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Address is the listen address for the metrics HTTP server.
	// Default: "127.0.0.1:9090"
	Address string `yaml:"address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "ganymede"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "gdl"
	Subsystem string `yaml:"subsystem"`
}
