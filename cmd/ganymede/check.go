package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/grammar"
	"mercator-hq/ganymede/pkg/grammar/cache"
	"mercator-hq/ganymede/pkg/report"
	"mercator-hq/ganymede/pkg/report/recorder"
)

// Exit codes for check outcomes. Outcomes are graded so CI pipelines
// can tell a broken grammar from a broken invocation: diagnostics and
// unreadable files are expected failures, a parser fault is a bug in
// ganymede itself.
const (
	exitDiagnostics = 1 // the grammar has problems
	exitUnreadable  = 2 // a grammar file could not be read
	exitFault       = 3 // the parser aborted on a violated invariant
)

var checkFlags struct {
	format  string
	noCache bool
}

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Check grammar files",
	Long: `Check grammar definition files for syntax and structural errors.

The check command parses each grammar in a single pass and reports
every independent problem it finds, with source context and a caret
marking the offending column. Directories are walked recursively for
grammar files.

Exit codes:
  0 - all grammars passed
  1 - at least one grammar has problems
  2 - a grammar file could not be read
  3 - the parser aborted on an internal fault

Examples:
  # Check a single grammar
  ganymede check grammars/json.gdl

  # Check a directory tree
  ganymede check grammars/

  # JSON output for CI/CD
  ganymede check grammars/ --format json

  # Force a fresh parse even when caching is configured
  ganymede check grammars/json.gdl --no-cache`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.noCache, "no-cache", false, "bypass the parse cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	format, err := cli.ParseFormat(checkFlags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	var parseCache cache.Cache
	if !checkFlags.noCache {
		parseCache, err = newParseCache(cfg)
		if err != nil {
			return err
		}
	}
	if parseCache != nil {
		defer parseCache.Close()
	}

	manager := grammar.NewManager(managerConfig(cfg), parseCache, nil, slog.Default())

	ctx := context.Background()
	var results []*grammar.CheckResult

	for _, arg := range args {
		info, statErr := os.Stat(arg)
		if statErr == nil && info.IsDir() {
			dirResults, err := manager.CheckAll(ctx, arg)
			if err != nil {
				return cli.NewExitError(exitUnreadable, cli.NewCommandError("check", err))
			}
			results = append(results, dirResults...)
			continue
		}
		// Missing files go through Check too, so they surface as io
		// diagnostics like every other unreadable grammar.
		results = append(results, manager.Check(ctx, arg))
	}

	if cfg.Reports.Enabled {
		if err := recordResults(cfg, results); err != nil {
			slog.Warn("failed to record check reports", "error", err)
		}
	}

	if format == cli.FormatJSON {
		if err := outputCheckJSON(results); err != nil {
			return err
		}
	} else {
		outputCheckText(results)
	}

	return checkExitError(results)
}

// checkReport is the JSON shape of one checked grammar.
type checkReport struct {
	File       string            `json:"file"`
	Valid      bool              `json:"valid"`
	Status     string            `json:"status"`
	Rules      int               `json:"rules"`
	FromCache  bool              `json:"from_cache,omitempty"`
	DurationMS float64           `json:"duration_ms"`
	Errors     []checkDiagnostic `json:"errors,omitempty"`
	Fault      string            `json:"fault,omitempty"`
}

// checkDiagnostic is the JSON shape of a single problem.
type checkDiagnostic struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func outputCheckText(results []*grammar.CheckResult) {
	passed, failed, errored, problems := 0, 0, 0, 0

	for _, result := range results {
		fmt.Printf("Checking %s...\n", result.Path)

		switch result.Status {
		case grammar.StatusPassed:
			passed++
			if result.FromCache {
				fmt.Printf("✓ %d rule(s), no problems found (cached)\n", result.RuleCount)
			} else {
				fmt.Printf("✓ %d rule(s), no problems found\n", result.RuleCount)
			}
		case grammar.StatusFailed:
			failed++
			for _, diag := range result.Diagnostics {
				fmt.Printf("✗ %s\n", diag.Detail())
				problems++
			}
		default:
			errored++
			if result.Logic != nil {
				fmt.Printf("✗ internal parser fault: %v\n", result.Logic)
				fmt.Println("  This is a bug in ganymede, not in the grammar. Please report it.")
			}
			for _, diag := range result.Diagnostics {
				fmt.Printf("✗ %s\n", diag.Detail())
				problems++
			}
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d grammar(s) checked: %d passed, %d failed, %d error(s)\n",
		len(results), passed, failed, errored)
	fmt.Printf("  %d problem(s) found\n", problems)
}

func outputCheckJSON(results []*grammar.CheckResult) error {
	reports := make([]checkReport, 0, len(results))

	for _, result := range results {
		rep := checkReport{
			File:       result.Path,
			Valid:      result.Status == grammar.StatusPassed,
			Status:     string(result.Status),
			Rules:      result.RuleCount,
			FromCache:  result.FromCache,
			DurationMS: float64(result.Duration.Microseconds()) / 1000,
		}
		for _, diag := range result.Diagnostics {
			rep.Errors = append(rep.Errors, checkDiagnostic{
				Line:       diag.Location.Line,
				Column:     diag.Location.Column,
				Message:    diag.Message,
				Severity:   "error",
				Type:       string(diag.Type),
				Suggestion: diag.Suggestion,
			})
		}
		if result.Logic != nil {
			rep.Fault = result.Logic.Error()
		}
		reports = append(reports, rep)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

// checkExitError grades the combined outcome of a check run. Faults
// outrank unreadable files, which outrank plain diagnostics.
func checkExitError(results []*grammar.CheckResult) error {
	problems := 0
	unreadable := false
	fault := false

	for _, result := range results {
		problems += len(result.Diagnostics)
		if result.Status == grammar.StatusError {
			if result.Logic != nil {
				fault = true
			} else {
				unreadable = true
			}
		}
	}

	switch {
	case fault:
		return cli.NewExitError(exitFault,
			cli.NewCommandError("check", fmt.Errorf("internal parser fault")))
	case unreadable:
		return cli.NewExitError(exitUnreadable,
			cli.NewCommandError("check", fmt.Errorf("unreadable grammar file")))
	case problems > 0:
		return cli.NewExitError(exitDiagnostics,
			cli.NewCommandError("check", fmt.Errorf("found %d problem(s)", problems)))
	}
	return nil
}

// managerConfig maps the check and watch configuration sections onto
// manager settings.
func managerConfig(cfg *config.Config) *grammar.ManagerConfig {
	return &grammar.ManagerConfig{
		MaxFileSize:   cfg.Check.MaxFileSize,
		MaxDepth:      cfg.Check.MaxDepth,
		Extensions:    cfg.Watch.Extensions,
		Debounce:      cfg.Watch.Debounce,
		IncludeHidden: cfg.Watch.IncludeHidden,
	}
}

// newParseCache builds the parse cache named by the cache section, or
// nil when caching is disabled.
func newParseCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "sqlite":
		sqliteCache, err := cache.NewSQLiteCache(cfg.Cache.Path, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, cli.NewCommandError("check", fmt.Errorf("failed to open parse cache: %w", err))
		}
		return sqliteCache, nil
	default:
		return cache.NewMemoryCache(cfg.Cache.MaxEntries), nil
	}
}

// checkRecord flattens a check result into its persisted report form.
// A parser fault is deliberately not folded into the diagnostics: the
// record keeps status "error" and the fault stays in the logs.
func checkRecord(result *grammar.CheckResult) *report.CheckRecord {
	record := &report.CheckRecord{
		GrammarPath: result.Path,
		Version:     result.Version,
		Status:      string(result.Status),
		RuleCount:   result.RuleCount,
		FromCache:   result.FromCache,
		Duration:    result.Duration,
		CheckedAt:   time.Now(),
	}

	for _, diag := range result.Diagnostics {
		record.Diagnostics = append(record.Diagnostics, report.Diagnostic{
			Type:       string(diag.Type),
			Message:    diag.Message,
			Line:       diag.Location.Line,
			Column:     diag.Location.Column,
			Suggestion: diag.Suggestion,
		})
	}

	return record
}

// recordResults writes check outcomes to the configured report storage.
func recordResults(cfg *config.Config, results []*grammar.CheckResult) error {
	store, err := openReportStorage(cfg, "")
	if err != nil {
		return err
	}
	defer store.Close()

	rec := recorder.NewRecorder(store, &recorder.Config{
		Enabled:      true,
		AsyncBuffer:  cfg.Reports.Recorder.Buffer,
		WriteTimeout: cfg.Reports.Recorder.WriteTimeout,
	}, slog.Default())
	defer rec.Close()

	ctx := context.Background()
	for _, result := range results {
		if err := rec.Record(ctx, checkRecord(result)); err != nil {
			return err
		}
	}
	return nil
}
