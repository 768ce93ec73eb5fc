package config

import "time"

// Default values for configuration fields.
const (
	// Check defaults
	DefaultCheckMaxFileSize = int64(10 * 1024 * 1024)
	DefaultCheckMaxDepth    = 64

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Cache defaults
	DefaultCacheBackend    = "memory"
	DefaultCachePath       = "data/parse-cache.db"
	DefaultCacheMaxEntries = 1024

	// Reports defaults
	DefaultReportsBackend       = "sqlite"
	DefaultReportsPath          = "data/reports.db"
	DefaultRecorderBuffer       = 256
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRetentionDays        = 30
	DefaultRetentionMaxRecords  = int64(0)
	DefaultRetentionSchedule    = "0 3 * * *"
	DefaultRetentionArchivePath = "data/archives/"

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"

	// Metrics defaults
	DefaultMetricsAddress   = "127.0.0.1:9090"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "ganymede"
	DefaultMetricsSubsystem = "gdl"
)

// DefaultWatchExtensions returns the default watched file extensions.
func DefaultWatchExtensions() []string {
	return []string{".gdl"}
}

// DefaultConfig returns a configuration populated with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Check defaults
	if cfg.Check.MaxFileSize == 0 {
		cfg.Check.MaxFileSize = DefaultCheckMaxFileSize
	}
	if cfg.Check.MaxDepth == 0 {
		cfg.Check.MaxDepth = DefaultCheckMaxDepth
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = DefaultWatchExtensions()
	}

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}

	// Reports defaults
	if cfg.Reports.Backend == "" {
		cfg.Reports.Backend = DefaultReportsBackend
	}
	if cfg.Reports.Path == "" {
		cfg.Reports.Path = DefaultReportsPath
	}
	if cfg.Reports.Recorder.Buffer == 0 {
		cfg.Reports.Recorder.Buffer = DefaultRecorderBuffer
	}
	if cfg.Reports.Recorder.WriteTimeout == 0 {
		cfg.Reports.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if cfg.Reports.Retention.Days == 0 {
		cfg.Reports.Retention.Days = DefaultRetentionDays
	}
	if cfg.Reports.Retention.PruneSchedule == "" {
		cfg.Reports.Retention.PruneSchedule = DefaultRetentionSchedule
	}
	if cfg.Reports.Retention.ArchivePath == "" {
		cfg.Reports.Retention.ArchivePath = DefaultRetentionArchivePath
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = DefaultMetricsAddress
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
