package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"mercator-hq/ganymede/pkg/report"
)

// CSVExporter exports check records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes check records to the provided writer in CSV format.
// Diagnostics are carried both as per-type counts and as one JSON column.
func (e *CSVExporter) Export(ctx context.Context, records []*report.CheckRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header row if configured
	if e.IncludeHeader {
		header := e.getHeaderRow()
		if err := writer.Write(header); err != nil {
			return report.NewExportError("csv", len(records), err)
		}
	}

	// Write data rows
	for _, record := range records {
		row := e.recordToRow(record)
		if err := writer.Write(row); err != nil {
			return report.NewExportError("csv", len(records), err)
		}
	}

	return nil
}

// ExportStream exports check records from a channel to CSV format.
// This is memory-efficient for large result sets as it streams records
// one at a time instead of loading all records in memory.
//
// The CSV writer flushes periodically to provide progress feedback
// for long-running exports.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *report.CheckRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header if configured
	if e.IncludeHeader {
		header := e.getHeaderRow()
		if err := writer.Write(header); err != nil {
			return report.NewExportError("csv", 0, err)
		}
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				// Channel closed - flush and return
				writer.Flush()
				if err := writer.Error(); err != nil {
					return report.NewExportError("csv", recordCount, err)
				}
				return nil
			}

			row := e.recordToRow(record)
			if err := writer.Write(row); err != nil {
				return report.NewExportError("csv", recordCount, err)
			}

			recordCount++

			// Flush periodically (every 100 records)
			// This provides progress feedback for long exports
			if recordCount%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return report.NewExportError("csv", recordCount, err)
				}
			}
		}
	}
}

// getHeaderRow returns the CSV header row.
func (e *CSVExporter) getHeaderRow() []string {
	return []string{
		"id", "grammar_path", "version",
		"status", "rule_count",
		"syntax_errors", "validation_errors", "io_errors", "diagnostics",
		"from_cache",
		"duration_us", "checked_at", "recorded_at",
	}
}

// recordToRow converts a check record to a CSV row.
func (e *CSVExporter) recordToRow(record *report.CheckRecord) []string {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	diagnostics, _ := json.Marshal(record.Diagnostics)

	return []string{
		record.ID,
		record.GrammarPath,
		record.Version,
		record.Status,
		fmt.Sprintf("%d", record.RuleCount),
		fmt.Sprintf("%d", record.CountByType("syntax")),
		fmt.Sprintf("%d", record.CountByType("validation")),
		fmt.Sprintf("%d", record.CountByType("io")),
		string(diagnostics),
		fmt.Sprintf("%t", record.FromCache),
		fmt.Sprintf("%d", record.Duration.Microseconds()),
		formatTime(record.CheckedAt),
		formatTime(record.RecordedAt),
	}
}
