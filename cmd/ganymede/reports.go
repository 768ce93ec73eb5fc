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
	"mercator-hq/ganymede/pkg/report"
	"mercator-hq/ganymede/pkg/report/export"
	"mercator-hq/ganymede/pkg/report/query"
	"mercator-hq/ganymede/pkg/report/retention"
	"mercator-hq/ganymede/pkg/report/storage"
)

var reportsFlags struct {
	backend string
	grammar string
	status  string
	since   string
	until   string
	limit   int
	offset  int
	format  string
	output  string
	pretty  bool
	header  bool

	days        int
	maxRecords  int64
	archive     bool
	archivePath string
	dryRun      bool
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Query and manage check reports",
	Long: `Query, export, and prune recorded check reports.

Every check run with report recording enabled writes an append-only
record: what was checked, the outcome, and every diagnostic found.
The reports command reads that history back.

Subcommands:
  list    - Query check reports with filters
  export  - Export check reports to JSON or CSV
  prune   - Delete old check reports per the retention policy

Examples:
  # Recent failures
  ganymede reports list --status failed --limit 20

  # Everything recorded for one grammar
  ganymede reports list --grammar grammars/json.gdl

  # Export a time range to CSV
  ganymede reports export --since 2026-08-01T00:00:00Z --format csv --output reports.csv

  # Enforce retention now instead of waiting for the schedule
  ganymede reports prune --days 30`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Query check reports",
	Long: `Query check reports with filters.

Time bounds are RFC3339 timestamps and apply to when the check ran.

Examples:
  # Most recent reports
  ganymede reports list

  # Failures for one grammar since a date
  ganymede reports list --grammar grammars/json.gdl --status failed --since 2026-08-01T00:00:00Z

  # JSON output
  ganymede reports list --format json`,
	RunE: listReports,
}

var reportsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export check reports",
	Long: `Export check reports to JSON or CSV.

Records are streamed from storage, so exports stay flat in memory no
matter how many reports match.

Examples:
  # Everything as JSON lines to stdout
  ganymede reports export

  # Pretty JSON to a file
  ganymede reports export --pretty --output reports.json

  # CSV for spreadsheets
  ganymede reports export --format csv --output reports.csv`,
	RunE: exportReports,
}

var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old check reports",
	Long: `Delete check reports that fall outside the retention policy.

Retention is enforced by age and by record count; either limit can be
overridden on the command line. With --archive the records are written
to a JSON archive before deletion.

Examples:
  # Apply the configured retention policy
  ganymede reports prune

  # Keep 30 days, archive the rest first
  ganymede reports prune --days 30 --archive

  # See what would be deleted
  ganymede reports prune --days 30 --dry-run`,
	RunE: pruneReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsExportCmd, reportsPruneCmd)

	reportsCmd.PersistentFlags().StringVar(&reportsFlags.backend, "backend", "", "storage backend: sqlite, memory (uses config if not specified)")

	// Flags for list command
	reportsListCmd.Flags().StringVar(&reportsFlags.grammar, "grammar", "", "filter by grammar path")
	reportsListCmd.Flags().StringVar(&reportsFlags.status, "status", "", "filter by status (passed, failed, error)")
	reportsListCmd.Flags().StringVar(&reportsFlags.since, "since", "", "only reports checked at or after this RFC3339 time")
	reportsListCmd.Flags().StringVar(&reportsFlags.until, "until", "", "only reports checked at or before this RFC3339 time")
	reportsListCmd.Flags().IntVar(&reportsFlags.limit, "limit", 100, "max results")
	reportsListCmd.Flags().IntVar(&reportsFlags.offset, "offset", 0, "pagination offset")
	reportsListCmd.Flags().StringVar(&reportsFlags.format, "format", "text", "output format: text, json")

	// Flags for export command
	reportsExportCmd.Flags().StringVar(&reportsFlags.grammar, "grammar", "", "filter by grammar path")
	reportsExportCmd.Flags().StringVar(&reportsFlags.status, "status", "", "filter by status (passed, failed, error)")
	reportsExportCmd.Flags().StringVar(&reportsFlags.since, "since", "", "only reports checked at or after this RFC3339 time")
	reportsExportCmd.Flags().StringVar(&reportsFlags.until, "until", "", "only reports checked at or before this RFC3339 time")
	reportsExportCmd.Flags().IntVar(&reportsFlags.limit, "limit", query.MaxLimit, "max records to export")
	reportsExportCmd.Flags().StringVar(&reportsFlags.format, "format", "json", "output format: json, csv")
	reportsExportCmd.Flags().StringVarP(&reportsFlags.output, "output", "o", "", "output file (default: stdout)")
	reportsExportCmd.Flags().BoolVar(&reportsFlags.pretty, "pretty", false, "pretty-print JSON output")
	reportsExportCmd.Flags().BoolVar(&reportsFlags.header, "header", true, "include the CSV header row")

	// Flags for prune command
	reportsPruneCmd.Flags().IntVar(&reportsFlags.days, "days", 0, "override retention age in days")
	reportsPruneCmd.Flags().Int64Var(&reportsFlags.maxRecords, "max-records", 0, "override the record count cap")
	reportsPruneCmd.Flags().BoolVar(&reportsFlags.archive, "archive", false, "archive records to JSON before deleting")
	reportsPruneCmd.Flags().StringVar(&reportsFlags.archivePath, "archive-path", "", "directory for archived records")
	reportsPruneCmd.Flags().BoolVar(&reportsFlags.dryRun, "dry-run", false, "report what would be deleted without deleting")
}

// openReportStorage creates the report storage backend named by the
// override flag, or by the reports configuration when no override is
// given.
func openReportStorage(cfg *config.Config, backendOverride string) (report.Storage, error) {
	backend := backendOverride
	if backend == "" {
		backend = cfg.Reports.Backend
	}

	switch backend {
	case "sqlite":
		sqliteConfig := storage.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Reports.Path
		store, err := storage.NewSQLiteStorage(sqliteConfig)
		if err != nil {
			return nil, cli.NewCommandError("reports", fmt.Errorf("failed to open report storage: %w", err))
		}
		return store, nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: sqlite, memory)", backend)
	}
}

// buildReportQuery assembles a query from the filter flags.
func buildReportQuery() (*report.Query, error) {
	q := &report.Query{
		GrammarPath: reportsFlags.grammar,
		Status:      reportsFlags.status,
		Limit:       reportsFlags.limit,
		Offset:      reportsFlags.offset,
	}

	if reportsFlags.since != "" {
		since, err := time.Parse(time.RFC3339, reportsFlags.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since time: %w", err)
		}
		q.Since = &since
	}
	if reportsFlags.until != "" {
		until, err := time.Parse(time.RFC3339, reportsFlags.until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until time: %w", err)
		}
		q.Until = &until
	}

	query.ApplyDefaults(q)
	if err := query.Validate(q); err != nil {
		return nil, err
	}

	return q, nil
}

func listReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	q, err := buildReportQuery()
	if err != nil {
		return err
	}

	store, err := openReportStorage(cfg, reportsFlags.backend)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(context.Background(), q)
	if err != nil {
		return cli.NewCommandError("reports", fmt.Errorf("query failed: %w", err))
	}

	if reportsFlags.format == "json" {
		return outputReportsJSON(os.Stdout, records)
	}
	return outputReportsText(os.Stdout, records, q)
}

func outputReportsText(output *os.File, records []*report.CheckRecord, q *report.Query) error {
	fmt.Fprintln(output, "Querying check reports...")
	fmt.Fprintln(output)

	if q.Since != nil && q.Until != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			q.Since.Format(time.RFC3339),
			q.Until.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Record ID: %s\n", record.ID)
		fmt.Fprintf(output, "Grammar: %s\n", record.GrammarPath)
		if record.Version != "" {
			fmt.Fprintf(output, "Version: %.12s\n", record.Version)
		}
		fmt.Fprintf(output, "Checked: %s\n", record.CheckedAt.Format(time.RFC3339))
		fmt.Fprintf(output, "Status: %s\n", record.Status)
		fmt.Fprintf(output, "Rules: %d\n", record.RuleCount)
		fmt.Fprintf(output, "Duration: %.1fms\n", float64(record.Duration.Microseconds())/1000)
		if record.FromCache {
			fmt.Fprintln(output, "Served from cache")
		}
		if len(record.Diagnostics) > 0 {
			fmt.Fprintf(output, "Diagnostics: %d\n", len(record.Diagnostics))
			for _, diag := range record.Diagnostics {
				if diag.Line > 0 {
					fmt.Fprintf(output, "  [%s] line %d, column %d: %s\n",
						diag.Type, diag.Line, diag.Column, diag.Message)
				} else {
					fmt.Fprintf(output, "  [%s] %s\n", diag.Type, diag.Message)
				}
			}
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			remaining := len(records) - 10
			fmt.Fprintln(output)
			fmt.Fprintf(output, "... and %d more records\n", remaining)
			fmt.Fprintf(output, "Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}

func outputReportsJSON(output *os.File, records []*report.CheckRecord) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"total_records": len(records),
		"records":       records,
	}

	return encoder.Encode(result)
}

func exportReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	format, err := cli.ParseFormat(reportsFlags.format, cli.FormatJSON, cli.FormatCSV)
	if err != nil {
		return err
	}

	q, err := buildReportQuery()
	if err != nil {
		return err
	}

	store, err := openReportStorage(cfg, reportsFlags.backend)
	if err != nil {
		return err
	}
	defer store.Close()

	output := os.Stdout
	if reportsFlags.output != "" {
		output, err = os.Create(reportsFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	ctx := context.Background()
	recordsCh, errCh, err := store.QueryStream(ctx, q)
	if err != nil {
		return cli.NewCommandError("reports", fmt.Errorf("query failed: %w", err))
	}

	switch format {
	case cli.FormatCSV:
		err = export.NewCSVExporter(reportsFlags.header).ExportStream(ctx, recordsCh, output)
	default:
		err = export.NewJSONExporter(reportsFlags.pretty).ExportStream(ctx, recordsCh, output)
	}
	if err != nil {
		return cli.NewCommandError("reports", fmt.Errorf("export failed: %w", err))
	}

	if streamErr := <-errCh; streamErr != nil {
		return cli.NewCommandError("reports", fmt.Errorf("query stream failed: %w", streamErr))
	}

	if reportsFlags.output != "" {
		fmt.Printf("Exported check reports to %s\n", reportsFlags.output)
	}
	return nil
}

func pruneReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	store, err := openReportStorage(cfg, reportsFlags.backend)
	if err != nil {
		return err
	}
	defer store.Close()

	retCfg := retentionConfig(cfg)
	retCfg.PruneSchedule = "" // one-shot run, no scheduler
	if cmd.Flags().Changed("days") {
		retCfg.RetentionDays = reportsFlags.days
	}
	if cmd.Flags().Changed("max-records") {
		retCfg.MaxRecords = reportsFlags.maxRecords
	}
	if reportsFlags.archive {
		retCfg.ArchiveBeforeDelete = true
	}
	if reportsFlags.archivePath != "" {
		retCfg.ArchivePath = reportsFlags.archivePath
	}

	ctx := context.Background()

	if reportsFlags.dryRun {
		return pruneDryRun(ctx, store, retCfg)
	}

	pruner := retention.NewPruner(store, retCfg, slog.Default())
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("reports", fmt.Errorf("prune failed: %w", err))
	}

	fmt.Printf("Deleted %d check report(s).\n", deleted)
	return nil
}

// pruneDryRun counts what the retention policy would delete. The age
// and count estimates can overlap, so the total is an upper bound.
func pruneDryRun(ctx context.Context, store report.Storage, retCfg *retention.Config) error {
	if retCfg.RetentionDays <= 0 && retCfg.MaxRecords <= 0 {
		fmt.Println("Retention is unlimited; nothing would be deleted.")
		return nil
	}

	if retCfg.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -retCfg.RetentionDays)
		count, err := store.Count(ctx, &report.Query{Until: &cutoff})
		if err != nil {
			return cli.NewCommandError("reports", fmt.Errorf("count failed: %w", err))
		}
		fmt.Printf("Would delete %d report(s) checked before %s.\n",
			count, cutoff.Format("2006-01-02"))
	}

	if retCfg.MaxRecords > 0 {
		total, err := store.Count(ctx, &report.Query{})
		if err != nil {
			return cli.NewCommandError("reports", fmt.Errorf("count failed: %w", err))
		}
		if total > retCfg.MaxRecords {
			fmt.Printf("Would delete %d report(s) over the %d-record cap.\n",
				total-retCfg.MaxRecords, retCfg.MaxRecords)
		}
	}

	return nil
}
