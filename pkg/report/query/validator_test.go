package query

import (
	"strings"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/report"
)

func TestValidate(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		query   *report.Query
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid query with all filters",
			query: &report.Query{
				GrammarPath: "grammars/json.gdl",
				Status:      "failed",
				Since:       &past,
				Until:       &now,
				Limit:       100,
				Offset:      0,
				SortOrder:   "desc",
			},
			wantErr: false,
		},
		{
			name: "valid query with minimal filters",
			query: &report.Query{
				Limit: 50,
			},
			wantErr: false,
		},
		{
			name: "negative limit",
			query: &report.Query{
				Limit: -1,
			},
			wantErr: true,
			errMsg:  "limit must be >= 0",
		},
		{
			name: "limit exceeds max",
			query: &report.Query{
				Limit: MaxLimit + 1,
			},
			wantErr: true,
			errMsg:  "limit must be <=",
		},
		{
			name: "negative offset",
			query: &report.Query{
				Offset: -1,
			},
			wantErr: true,
			errMsg:  "offset must be >= 0",
		},
		{
			name: "invalid sort order",
			query: &report.Query{
				SortOrder: "sideways",
			},
			wantErr: true,
			errMsg:  "invalid sort order",
		},
		{
			name: "since after until",
			query: &report.Query{
				Since: &future,
				Until: &past,
			},
			wantErr: true,
			errMsg:  "since must be before until",
		},
		{
			name: "invalid status",
			query: &report.Query{
				Status: "maybe",
			},
			wantErr: true,
			errMsg:  "invalid status",
		},
		{
			name: "valid status - passed",
			query: &report.Query{
				Status: "passed",
			},
			wantErr: false,
		},
		{
			name: "valid status - failed",
			query: &report.Query{
				Status: "failed",
			},
			wantErr: false,
		},
		{
			name: "valid status - error",
			query: &report.Query{
				Status: "error",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.errMsg)
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidate_ReturnsQueryError(t *testing.T) {
	q := &report.Query{Limit: -5}

	err := Validate(q)
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}

	queryErr, ok := err.(*report.QueryError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *report.QueryError", err)
	}
	if queryErr.Query != q {
		t.Error("QueryError.Query does not reference the validated query")
	}
}

func TestValidate_ValidSortOrders(t *testing.T) {
	validOrders := []string{"asc", "desc"}

	for _, order := range validOrders {
		t.Run("sort_order_"+order, func(t *testing.T) {
			query := &report.Query{
				SortOrder: order,
			}
			err := Validate(query)
			if err != nil {
				t.Errorf("Validate() with sort order %q failed: %v", order, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name          string
		query         *report.Query
		expectedLimit int
		expectedOrder string
	}{
		{
			name:          "empty query gets all defaults",
			query:         &report.Query{},
			expectedLimit: DefaultLimit,
			expectedOrder: "desc",
		},
		{
			name: "query with limit keeps it",
			query: &report.Query{
				Limit: 50,
			},
			expectedLimit: 50,
			expectedOrder: "desc",
		},
		{
			name: "query with sort order keeps it",
			query: &report.Query{
				SortOrder: "asc",
			},
			expectedLimit: DefaultLimit,
			expectedOrder: "asc",
		},
		{
			name: "query with all set keeps all",
			query: &report.Query{
				Limit:     25,
				SortOrder: "asc",
			},
			expectedLimit: 25,
			expectedOrder: "asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ApplyDefaults(tt.query)

			if tt.query.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", tt.query.Limit, tt.expectedLimit)
			}
			if tt.query.SortOrder != tt.expectedOrder {
				t.Errorf("SortOrder = %s, want %s", tt.query.SortOrder, tt.expectedOrder)
			}
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	// Applying defaults multiple times should have same effect
	query := &report.Query{}

	ApplyDefaults(query)
	firstLimit := query.Limit
	firstOrder := query.SortOrder

	ApplyDefaults(query)
	ApplyDefaults(query)

	if query.Limit != firstLimit {
		t.Errorf("Limit changed after multiple ApplyDefaults: %d -> %d", firstLimit, query.Limit)
	}
	if query.SortOrder != firstOrder {
		t.Errorf("SortOrder changed after multiple ApplyDefaults: %s -> %s", firstOrder, query.SortOrder)
	}
}

func TestConstants(t *testing.T) {
	if DefaultLimit != 100 {
		t.Errorf("DefaultLimit = %d, want 100", DefaultLimit)
	}
	if MaxLimit != 10000 {
		t.Errorf("MaxLimit = %d, want 10000", MaxLimit)
	}
}
