package grammar

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/gdl/ast"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
	"mercator-hq/ganymede/pkg/gdl/parser"
	"mercator-hq/ganymede/pkg/gdl/validator"
	"mercator-hq/ganymede/pkg/grammar/cache"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// Status is the outcome of a grammar check.
type Status string

const (
	// StatusPassed means the grammar parsed and validated cleanly.
	StatusPassed Status = "passed"

	// StatusFailed means the grammar produced diagnostics.
	StatusFailed Status = "failed"

	// StatusError means the check could not complete: the file was
	// unreadable or the parser aborted on a violated invariant.
	StatusError Status = "error"
)

// CheckResult is the outcome of checking one grammar file.
type CheckResult struct {
	// Path is the grammar file path as given to Check.
	Path string

	// Version is the hex-encoded SHA-256 of the file contents. Empty
	// when the file could not be read.
	Version string

	// Status is the check outcome.
	Status Status

	// Grammar is the parsed rule tree. It is set only for passing
	// checks served by a fresh parse; cached results carry no tree.
	Grammar *ast.Grammar

	// Diagnostics holds every problem found, in source order.
	Diagnostics []*gdlErrors.Error

	// Logic is set when the parser aborted on a violated invariant.
	Logic *gdlErrors.LogicError

	// RuleCount is the number of rules found, nested rules included.
	// It is zero when parsing failed.
	RuleCount int

	// Duration is how long the check took, file access included.
	Duration time.Duration

	// FromCache reports whether the outcome was served from the parse
	// cache instead of a fresh parse.
	FromCache bool
}

// ManagerConfig contains configuration for the grammar manager.
type ManagerConfig struct {
	// MaxFileSize is the maximum grammar file size in bytes.
	// Default: 10MB
	MaxFileSize int64

	// MaxDepth is the maximum rule nesting depth.
	// Default: 64
	MaxDepth int

	// Extensions is the set of file extensions recognized as grammar
	// files. Default: [".gdl"]
	Extensions []string

	// Debounce is the quiet period before a file change triggers a
	// recheck in watch mode. Default: 200ms
	Debounce time.Duration

	// IncludeHidden makes watch mode follow hidden files and
	// directories as well.
	IncludeHidden bool
}

// DefaultManagerConfig returns the default manager configuration.
func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		MaxFileSize: config.DefaultCheckMaxFileSize,
		MaxDepth:    config.DefaultCheckMaxDepth,
		Extensions:  []string{".gdl"},
		Debounce:    config.DefaultWatchDebounce,
	}
}

// Manager checks grammar files and tracks their state. It wires the
// loader, parser, and validator together with the optional parse cache
// and metrics, and drives watch mode.
type Manager struct {
	config    *ManagerConfig
	loader    *Loader
	registry  *Registry
	parser    *parser.Parser
	validator *validator.Validator
	cache     cache.Cache
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewManager creates a new grammar manager. A nil parseCache disables
// caching; a nil collector disables instrumentation.
func NewManager(cfg *ManagerConfig, parseCache cache.Cache, collector *metrics.Collector, logger *slog.Logger) *Manager {
	if cfg == nil {
		cfg = DefaultManagerConfig()
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = config.DefaultCheckMaxFileSize
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = config.DefaultCheckMaxDepth
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".gdl"}
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if collector == nil {
		collector = metrics.NewCollector(&config.MetricsConfig{}, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		config:    cfg,
		loader:    NewLoader(cfg.MaxFileSize, cfg.Extensions),
		registry:  NewRegistry(),
		parser:    parser.NewParser().WithMaxFileSize(cfg.MaxFileSize).WithMaxDepth(cfg.MaxDepth),
		validator: validator.NewValidator(),
		cache:     parseCache,
		metrics:   collector,
		logger:    logger.With("component", "grammar.manager"),
	}
}

// Registry returns the registry tracking the last known state of every
// checked grammar file.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Check loads, parses, and validates one grammar file. The result is
// always non-nil: file access problems surface as a result with
// StatusError and a single io diagnostic rather than an error return.
//
// Outcomes for unchanged file contents are served from the parse cache
// when one is configured. Cache failures are logged and the check falls
// back to a fresh parse.
func (m *Manager) Check(ctx context.Context, path string) *CheckResult {
	start := time.Now()

	data, err := m.loader.LoadFile(path)
	if err != nil {
		result := m.loadFailure(path, err)
		result.Duration = time.Since(start)
		if errors.Is(err, fs.ErrNotExist) {
			m.registry.Remove(path)
		} else {
			m.registry.Put(resultEntry(result))
		}
		m.record(result)
		return result
	}

	version := cache.Key(data)

	if cached := m.fromCache(ctx, version); cached != nil {
		cached.Path = path
		cached.Duration = time.Since(start)
		m.registry.Put(resultEntry(cached))
		m.record(cached)
		return cached
	}

	result := m.parseAndValidate(data, path)
	result.Version = version
	result.Duration = time.Since(start)

	m.registry.Put(resultEntry(result))
	m.storeInCache(ctx, result)
	m.record(result)

	return result
}

// CheckAll checks every grammar file under root. If root is itself a
// grammar file, only that file is checked. Results come back in walk
// order.
func (m *Manager) CheckAll(ctx context.Context, root string) ([]*CheckResult, error) {
	paths, err := m.loader.FindGrammarFiles(root)
	if err != nil {
		return nil, err
	}

	results := make([]*CheckResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, m.Check(ctx, path))
	}

	return results, nil
}

// Parse loads, parses, and validates a grammar file and returns its
// rule tree, bypassing the cache. Use this when the tree itself is
// needed rather than the check outcome.
func (m *Manager) Parse(path string) (*ast.Grammar, error) {
	data, err := m.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	grammarTree, err := m.parser.ParseBytes(data, path)
	if err != nil {
		return nil, err
	}

	if err := m.validator.Validate(grammarTree); err != nil {
		return nil, err
	}

	return grammarTree, nil
}

// Watch checks every grammar file under path once, then watches for
// changes and rechecks changed files until the context is cancelled.
// Every result, initial pass included, is delivered to onResult.
func (m *Manager) Watch(ctx context.Context, path string, onResult func(*CheckResult)) error {
	results, err := m.CheckAll(ctx, path)
	if err != nil {
		return err
	}
	for _, result := range results {
		if onResult != nil {
			onResult(result)
		}
	}

	watcherCfg := &WatcherConfig{
		Path:          path,
		Debounce:      m.config.Debounce,
		Extensions:    m.config.Extensions,
		IncludeHidden: m.config.IncludeHidden,
		OnEvent: func(event fsnotify.Event) {
			m.metrics.RecordWatchEvent(event.Op.String())
		},
	}

	fw, err := NewFileWatcher(watcherCfg, m.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	return fw.Watch(ctx, func(changed string) {
		result := m.Check(ctx, changed)

		if result.Status == StatusError {
			m.metrics.RecordReload("error")
		} else {
			m.metrics.RecordReload("ok")
		}

		m.logger.Info("grammar rechecked",
			"path", changed,
			"status", string(result.Status),
			"diagnostics", len(result.Diagnostics),
		)

		if onResult != nil {
			onResult(result)
		}
	})
}

// loadFailure maps a loader error to a result carrying one io
// diagnostic, mirroring how the parser reports its own file access
// problems.
func (m *Manager) loadFailure(path string, err error) *CheckResult {
	var cause error
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		cause = loadErr.Cause
	} else {
		cause = err
	}

	return &CheckResult{
		Path:   path,
		Status: StatusError,
		Diagnostics: []*gdlErrors.Error{{
			Type:     gdlErrors.ErrorTypeIO,
			Message:  "cannot load grammar file: " + cause.Error(),
			Location: ast.Location{File: path},
		}},
	}
}

// parseAndValidate runs a fresh parse and validation over loaded bytes.
func (m *Manager) parseAndValidate(data []byte, path string) *CheckResult {
	grammarTree, err := m.parser.ParseBytes(data, path)
	if err != nil {
		var list *gdlErrors.ErrorList
		var logic *gdlErrors.LogicError
		switch {
		case errors.As(err, &list):
			return &CheckResult{
				Path:        path,
				Status:      StatusFailed,
				Diagnostics: list.Errors,
			}
		case errors.As(err, &logic):
			return &CheckResult{
				Path:   path,
				Status: StatusError,
				Logic:  logic,
			}
		default:
			return &CheckResult{
				Path:   path,
				Status: StatusError,
				Diagnostics: []*gdlErrors.Error{{
					Type:     gdlErrors.ErrorTypeIO,
					Message:  err.Error(),
					Location: ast.Location{File: path},
				}},
			}
		}
	}

	if err := m.validator.Validate(grammarTree); err != nil {
		var list *gdlErrors.ErrorList
		if errors.As(err, &list) {
			return &CheckResult{
				Path:        path,
				Status:      StatusFailed,
				Diagnostics: list.Errors,
				RuleCount:   grammarTree.RuleCount(),
			}
		}
		return &CheckResult{
			Path:   path,
			Status: StatusError,
			Diagnostics: []*gdlErrors.Error{{
				Type:     gdlErrors.ErrorTypeValidation,
				Message:  err.Error(),
				Location: ast.Location{File: path},
			}},
			RuleCount: grammarTree.RuleCount(),
		}
	}

	return &CheckResult{
		Path:      path,
		Status:    StatusPassed,
		Grammar:   grammarTree,
		RuleCount: grammarTree.RuleCount(),
	}
}

// fromCache returns a result restored from the parse cache, or nil on
// a miss. Corrupted entries count as misses and fall back to a fresh
// parse.
func (m *Manager) fromCache(ctx context.Context, version string) *CheckResult {
	if m.cache == nil {
		return nil
	}

	entry, found, err := m.cache.Get(ctx, version)
	if err != nil {
		m.logger.Warn("parse cache read failed", "error", err)
		return nil
	}
	if !found {
		m.metrics.RecordCacheMiss("parse")
		return nil
	}

	result := &CheckResult{
		Path:      entry.Path,
		Version:   entry.Key,
		Status:    Status(entry.Status),
		RuleCount: entry.RuleCount,
		FromCache: true,
	}

	if len(entry.Diagnostics) > 0 {
		if err := json.Unmarshal(entry.Diagnostics, &result.Diagnostics); err != nil {
			m.logger.Warn("parse cache entry corrupted", "key", entry.Key, "error", err)
			m.metrics.RecordCacheMiss("parse")
			return nil
		}
	}

	m.metrics.RecordCacheHit("parse")
	return result
}

// storeInCache records a fresh outcome in the parse cache. Results with
// StatusError are never cached: they describe the environment or the
// parser, not the grammar text. Cache failures are logged, not
// returned; caching is advisory.
func (m *Manager) storeInCache(ctx context.Context, result *CheckResult) {
	if m.cache == nil || result.Status == StatusError {
		return
	}

	entry := &cache.Entry{
		Key:       result.Version,
		Path:      result.Path,
		Status:    string(result.Status),
		RuleCount: result.RuleCount,
		CreatedAt: time.Now(),
	}

	if len(result.Diagnostics) > 0 {
		data, err := json.Marshal(result.Diagnostics)
		if err != nil {
			m.logger.Warn("failed to encode diagnostics for cache", "path", result.Path, "error", err)
			return
		}
		entry.Diagnostics = data
	}

	if err := m.cache.Put(ctx, entry); err != nil {
		m.logger.Warn("parse cache write failed", "path", result.Path, "error", err)
		return
	}

	if n, err := m.cache.Len(ctx); err == nil {
		m.metrics.UpdateCacheSize("parse", n)
	}
}

// record publishes check metrics for a completed result.
func (m *Manager) record(result *CheckResult) {
	m.metrics.RecordCheck(string(result.Status), result.Duration, result.RuleCount)

	counts := make(map[gdlErrors.ErrorType]int)
	for _, diag := range result.Diagnostics {
		counts[diag.Type]++
	}
	for diagType, count := range counts {
		m.metrics.RecordDiagnostics(string(diagType), count)
	}
}

// resultEntry converts a check result to its registry entry.
func resultEntry(result *CheckResult) *Entry {
	return &Entry{
		Path:      result.Path,
		Version:   result.Version,
		Status:    result.Status,
		RuleCount: result.RuleCount,
		CheckedAt: time.Now(),
	}
}
