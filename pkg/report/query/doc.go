// Package query provides validation and defaults for check record queries.
//
// # Query Validation
//
// The validator ensures query parameters are valid before execution:
//
//   - Limit >= 0 and <= MaxLimit
//   - Offset >= 0
//   - Sort order is valid (asc, desc)
//   - Time range is valid (since <= until)
//   - Status is valid (passed, failed, error)
//
// # Basic Usage
//
//	q := &report.Query{
//	    GrammarPath: "grammars/json.gdl",
//	    Status:      "failed",
//	    Limit:       100,
//	    SortOrder:   "desc",
//	}
//
//	if err := query.Validate(q); err != nil {
//	    log.Fatal(err)
//	}
//	query.ApplyDefaults(q)
//
//	records, err := backend.Query(ctx, q)
package query
