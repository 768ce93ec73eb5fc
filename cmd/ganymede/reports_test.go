package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/report"
)

func resetReportsFlags() {
	reportsFlags.backend = ""
	reportsFlags.grammar = ""
	reportsFlags.status = ""
	reportsFlags.since = ""
	reportsFlags.until = ""
	reportsFlags.limit = 100
	reportsFlags.offset = 0
}

func TestBuildReportQuery(t *testing.T) {
	resetReportsFlags()
	reportsFlags.grammar = "grammars/json.gdl"
	reportsFlags.status = "failed"
	reportsFlags.since = "2026-08-01T00:00:00Z"
	reportsFlags.limit = 25

	q, err := buildReportQuery()
	if err != nil {
		t.Fatalf("buildReportQuery() error = %v", err)
	}

	if q.GrammarPath != "grammars/json.gdl" {
		t.Errorf("GrammarPath = %q", q.GrammarPath)
	}
	if q.Status != "failed" {
		t.Errorf("Status = %q, want %q", q.Status, "failed")
	}
	if q.Limit != 25 {
		t.Errorf("Limit = %d, want 25", q.Limit)
	}
	if q.SortOrder != "desc" {
		t.Errorf("SortOrder = %q, want the desc default", q.SortOrder)
	}

	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if q.Since == nil || !q.Since.Equal(want) {
		t.Errorf("Since = %v, want %v", q.Since, want)
	}
}

func TestBuildReportQueryBadTime(t *testing.T) {
	resetReportsFlags()
	reportsFlags.since = "yesterday"

	if _, err := buildReportQuery(); err == nil {
		t.Error("buildReportQuery() with invalid --since should return error")
	}
}

func TestBuildReportQueryBadStatus(t *testing.T) {
	resetReportsFlags()
	reportsFlags.status = "broken"

	if _, err := buildReportQuery(); err == nil {
		t.Error("buildReportQuery() with invalid --status should return error")
	}
}

func TestBuildReportQueryInvertedRange(t *testing.T) {
	resetReportsFlags()
	reportsFlags.since = "2026-08-02T00:00:00Z"
	reportsFlags.until = "2026-08-01T00:00:00Z"

	if _, err := buildReportQuery(); err == nil {
		t.Error("buildReportQuery() with since after until should return error")
	}
}

func TestOpenReportStorageMemory(t *testing.T) {
	cfg := config.DefaultConfig()

	store, err := openReportStorage(cfg, "memory")
	if err != nil {
		t.Fatalf("openReportStorage() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	record := &report.CheckRecord{
		ID:          "test-record",
		GrammarPath: "grammars/json.gdl",
		Status:      "passed",
		CheckedAt:   time.Now(),
		RecordedAt:  time.Now(),
	}
	if err := store.Store(ctx, record); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	count, err := store.Count(ctx, &report.Query{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestOpenReportStorageSQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Reports.Path = filepath.Join(t.TempDir(), "reports.db")

	store, err := openReportStorage(cfg, "sqlite")
	if err != nil {
		t.Fatalf("openReportStorage() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenReportStorageUnsupported(t *testing.T) {
	cfg := config.DefaultConfig()

	if _, err := openReportStorage(cfg, "postgres"); err == nil {
		t.Error("openReportStorage() with unsupported backend should return error")
	}
}

func TestOpenReportStorageUsesConfigBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Reports.Backend = "memory"

	store, err := openReportStorage(cfg, "")
	if err != nil {
		t.Fatalf("openReportStorage() error = %v", err)
	}
	store.Close()
}
