package query

import (
	"fmt"

	"mercator-hq/ganymede/pkg/report"
)

const (
	// DefaultLimit is the default number of records to return if not specified.
	DefaultLimit = 100

	// MaxLimit is the maximum number of records that can be returned in a single query.
	MaxLimit = 10000
)

// ValidSortOrders contains the valid sort orders.
var ValidSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// ValidStatuses contains the valid check outcome statuses.
var ValidStatuses = map[string]bool{
	"passed": true,
	"failed": true,
	"error":  true,
}

// Validate validates a query and returns an error if any parameters are invalid.
func Validate(q *report.Query) error {
	// Validate limit
	if q.Limit < 0 {
		return report.NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return report.NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}

	// Validate offset
	if q.Offset < 0 {
		return report.NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}

	// Validate sort order
	if q.SortOrder != "" && !ValidSortOrders[q.SortOrder] {
		return report.NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}

	// Validate time range
	if q.Since != nil && q.Until != nil {
		if q.Since.After(*q.Until) {
			return report.NewQueryError(q, fmt.Errorf("since must be before until"))
		}
	}

	// Validate status
	if q.Status != "" && !ValidStatuses[q.Status] {
		return report.NewQueryError(q, fmt.Errorf("invalid status: %s (must be 'passed', 'failed', or 'error')", q.Status))
	}

	return nil
}

// ApplyDefaults applies default values to a query.
func ApplyDefaults(q *report.Query) {
	// Apply default limit
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	// Apply default sort order
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}
