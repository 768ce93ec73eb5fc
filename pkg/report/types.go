package report

import (
	"context"
	"io"
	"time"
)

// CheckRecord is the persisted outcome of one grammar check: what was
// checked, what came of it, and every diagnostic produced. Records are
// append-only; a recheck of the same file writes a new record.
type CheckRecord struct {
	// Identity
	ID string `json:"id"` // UUID v4

	// What was checked
	GrammarPath string `json:"grammar_path"`      // grammar file path
	Version     string `json:"version,omitempty"` // hex SHA-256 of contents, empty when unreadable

	// Outcome
	Status      string       `json:"status"`                // "passed", "failed", "error"
	RuleCount   int          `json:"rule_count"`            // rules found, nested rules included
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"` // problems found, in source order
	FromCache   bool         `json:"from_cache"`            // served from the parse cache?

	// Timing
	Duration   time.Duration `json:"duration"`    // how long the check took
	CheckedAt  time.Time     `json:"checked_at"`  // when the check ran
	RecordedAt time.Time     `json:"recorded_at"` // when the record was written
}

// Diagnostic is one problem found during a check, flattened for stable
// storage and export.
type Diagnostic struct {
	Type       string `json:"type"`                 // "syntax", "validation", "io"
	Message    string `json:"message"`              // what went wrong
	Line       int    `json:"line,omitempty"`       // 1-based source line, 0 when unknown
	Column     int    `json:"column,omitempty"`     // 1-based source column, 0 when unknown
	Suggestion string `json:"suggestion,omitempty"` // suggested fix
}

// CountByType returns how many diagnostics of the given type the record
// carries.
func (r *CheckRecord) CountByType(diagType string) int {
	count := 0
	for _, diag := range r.Diagnostics {
		if diag.Type == diagType {
			count++
		}
	}
	return count
}

// Query defines filter parameters for querying check records.
type Query struct {
	// Filters
	GrammarPath string `json:"grammar_path,omitempty"` // exact grammar path
	Status      string `json:"status,omitempty"`       // "passed", "failed", "error"

	// Time range over CheckedAt
	Since *time.Time `json:"since,omitempty"` // inclusive lower bound
	Until *time.Time `json:"until,omitempty"` // inclusive upper bound

	// Pagination
	Limit  int `json:"limit,omitempty"`  // max records to return
	Offset int `json:"offset,omitempty"` // skip N records

	// Sorting by CheckedAt
	SortOrder string `json:"sort_order,omitempty"` // "asc" or "desc" (default "desc")
}

// Storage defines the interface for check report storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a check record.
	Store(ctx context.Context, record *CheckRecord) error

	// Query retrieves check records matching the query filters.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*CheckRecord, error)

	// QueryStream returns a channel of check records for
	// memory-efficient streaming over large result sets.
	//
	// The record and error channels are closed when the query completes
	// or errors; callers should read from both until they are closed.
	QueryStream(ctx context.Context, query *Query) (<-chan *CheckRecord, <-chan error, error)

	// Count returns the number of check records matching the query
	// filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes check records matching the query filters and
	// returns the number removed. Used for retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}

// Exporter writes check records to a destination in a concrete format.
type Exporter interface {
	// Export writes the records to w in the exporter's format.
	Export(ctx context.Context, records []*CheckRecord, w io.Writer) error
}
