package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/grammar"
	"mercator-hq/ganymede/pkg/report/recorder"
	"mercator-hq/ganymede/pkg/report/retention"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

var watchFlags struct {
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch grammar files and recheck on change",
	Long: `Watch a grammar file or directory and recheck on every change.

The watch command checks every grammar under the path once, then keeps
watching until interrupted. Rapid successive writes within the debounce
window collapse into a single recheck. When metrics are enabled the
Prometheus endpoint is served for the lifetime of the watch; when
report recording is enabled every recheck is persisted and the
retention pruner runs on its schedule.

Examples:
  # Watch the current directory
  ganymede watch

  # Watch a grammar directory with metrics
  ganymede watch grammars/ --metrics-addr localhost:9090

  # Watch with recording and retention from configuration
  ganymede watch grammars/ --config ganymede.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address (overrides configuration)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	if watchFlags.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = watchFlags.metricsAddr
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	collector := metrics.NewCollector(&cfg.Metrics, nil)
	if cfg.Metrics.Enabled {
		shutdown := serveMetrics(cfg, collector)
		defer shutdown()
	}

	parseCache, err := newParseCache(cfg)
	if err != nil {
		return err
	}
	if parseCache != nil {
		defer parseCache.Close()
	}

	manager := grammar.NewManager(managerConfig(cfg), parseCache, collector, slog.Default())

	// Report recording and retention run only when configured; defers
	// unwind in reverse so the recorder drains before storage closes.
	var rec *recorder.Recorder
	if cfg.Reports.Enabled {
		store, err := openReportStorage(cfg, "")
		if err != nil {
			return err
		}
		defer store.Close()

		rec = recorder.NewRecorder(store, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Reports.Recorder.Buffer,
			WriteTimeout: cfg.Reports.Recorder.WriteTimeout,
		}, slog.Default())
		defer rec.Close()

		if cfg.Reports.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(store, retentionConfig(cfg), slog.Default())
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention pruning", "error", err)
			} else {
				defer pruner.Stop()
			}
		}
	}

	fmt.Printf("Watching %s for grammar changes (Ctrl+C to stop)...\n\n", path)

	onResult := func(result *grammar.CheckResult) {
		printWatchResult(result)
		if rec != nil {
			if err := rec.Record(ctx, checkRecord(result)); err != nil {
				slog.Warn("failed to record check report", "error", err)
			}
		}
	}

	if err := manager.Watch(ctx, path, onResult); err != nil {
		return cli.NewExitError(exitUnreadable, cli.NewCommandError("watch", err))
	}

	fmt.Println("\nWatch stopped.")
	return nil
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown
// function.
func serveMetrics(cfg *config.Config, collector *metrics.Collector) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, collector.Handler())

	server := &http.Server{
		Addr:    cfg.Metrics.Address,
		Handler: mux,
	}

	go func() {
		slog.Info("metrics endpoint listening",
			"address", cfg.Metrics.Address,
			"path", cfg.Metrics.Path,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics endpoint failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics endpoint shutdown failed", "error", err)
		}
	}
}

// retentionConfig maps the reports retention section onto pruner
// settings.
func retentionConfig(cfg *config.Config) *retention.Config {
	return &retention.Config{
		RetentionDays:       cfg.Reports.Retention.Days,
		MaxRecords:          cfg.Reports.Retention.MaxRecords,
		PruneSchedule:       cfg.Reports.Retention.PruneSchedule,
		ArchiveBeforeDelete: cfg.Reports.Retention.ArchiveBeforeDelete,
		ArchivePath:         cfg.Reports.Retention.ArchivePath,
	}
}

func printWatchResult(result *grammar.CheckResult) {
	stamp := time.Now().Format("15:04:05")

	switch result.Status {
	case grammar.StatusPassed:
		cached := ""
		if result.FromCache {
			cached = " (cached)"
		}
		fmt.Printf("[%s] ✓ %s: %d rule(s) in %.1fms%s\n",
			stamp, result.Path, result.RuleCount,
			float64(result.Duration.Microseconds())/1000, cached)

	case grammar.StatusFailed:
		fmt.Printf("[%s] ✗ %s: %d problem(s)\n", stamp, result.Path, len(result.Diagnostics))
		for _, diag := range result.Diagnostics {
			fmt.Printf("    %s\n", strings.ReplaceAll(diag.Detail(), "\n", "\n    "))
		}

	default:
		if result.Logic != nil {
			fmt.Printf("[%s] ✗ %s: internal parser fault: %v\n", stamp, result.Path, result.Logic)
			return
		}
		for _, diag := range result.Diagnostics {
			fmt.Printf("[%s] ✗ %s: %s\n", stamp, result.Path, diag.Message)
		}
	}
}
