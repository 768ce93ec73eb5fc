package metrics

import (
	"time"

	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in ganymede.
// It owns the registry and provides a unified interface for recording
// metrics across the check, watch, and cache components.
//
// All label sets are small closed vocabularies (check status, diagnostic
// type, watch result), so recording is allocation-free after the first
// observation of each combination.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	checkMetrics *CheckMetrics
	watchMetrics *WatchMetrics
	cacheMetrics *CacheMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "ganymede",
//		Subsystem: "gdl",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.checkMetrics = NewCheckMetrics(cfg, registry)
	c.watchMetrics = NewWatchMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// RecordCheck records metrics for a completed grammar check.
//
// Parameters:
//   - status: check outcome ("passed", "failed", "error")
//   - duration: total check duration including file access
//   - rules: number of top-level rules parsed (0 when the check failed)
func (c *Collector) RecordCheck(status string, duration time.Duration, rules int) {
	if !c.config.Enabled {
		return
	}

	c.checkMetrics.RecordCheck(status, duration, rules)
}

// RecordDiagnostics records the number of diagnostics of a given type
// ("syntax", "validation", "io") produced by a check.
func (c *Collector) RecordDiagnostics(diagType string, count int) {
	if !c.config.Enabled || count == 0 {
		return
	}

	c.checkMetrics.RecordDiagnostics(diagType, count)
}

// RecordReload records the outcome of a watch-triggered grammar reload.
//
// Parameters:
//   - result: "ok" or "error"
func (c *Collector) RecordReload(result string) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.RecordReload(result)
}

// RecordWatchEvent records a filesystem event observed in watch mode.
//
// Parameters:
//   - op: filesystem operation name (e.g., "WRITE", "CREATE", "REMOVE")
func (c *Collector) RecordWatchEvent(op string) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.RecordEvent(op)
}

// RecordCacheHit records a parse cache hit.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a parse cache miss.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.RecordMiss(cacheName)
}

// UpdateCacheSize updates the current entry count of a parse cache.
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}

	c.cacheMetrics.UpdateSize(cacheName, size)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
