package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/report"
)

func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	record := &report.CheckRecord{
		ID:          "mem-1",
		GrammarPath: "grammars/json.gdl",
		Version:     "deadbeef",
		Status:      "passed",
		RuleCount:   7,
		CheckedAt:   now,
		RecordedAt:  now,
	}

	if err := backend.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	results, err := backend.Query(ctx, &report.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(results))
	}
	if results[0].ID != "mem-1" {
		t.Errorf("Expected ID 'mem-1', got '%s'", results[0].ID)
	}
	if results[0].RuleCount != 7 {
		t.Errorf("Expected rule count 7, got %d", results[0].RuleCount)
	}
}

func TestMemoryStorage_QueryWithFilters(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	records := []*report.CheckRecord{
		{ID: "r1", GrammarPath: "grammars/json.gdl", Status: "passed", CheckedAt: now.Add(-2 * time.Hour)},
		{ID: "r2", GrammarPath: "grammars/json.gdl", Status: "failed", CheckedAt: now.Add(-1 * time.Hour)},
		{ID: "r3", GrammarPath: "grammars/csv.gdl", Status: "passed", CheckedAt: now},
	}
	for _, record := range records {
		if err := backend.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	// Grammar path filter
	results, err := backend.Query(ctx, &report.Query{GrammarPath: "grammars/json.gdl"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 records for json.gdl, got %d", len(results))
	}

	// Status filter
	results, err = backend.Query(ctx, &report.Query{Status: "failed"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 failed record, got %d", len(results))
	}
	if results[0].ID != "r2" {
		t.Errorf("Expected 'r2', got '%s'", results[0].ID)
	}

	// Time range filter
	since := now.Add(-90 * time.Minute)
	results, err = backend.Query(ctx, &report.Query{Since: &since})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 records in range, got %d", len(results))
	}
}

func TestMemoryStorage_QueryWithPagination(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 10; i++ {
		record := &report.CheckRecord{
			ID:          fmt.Sprintf("record-%d", i),
			GrammarPath: "grammars/a.gdl",
			Status:      "passed",
			CheckedAt:   now.Add(time.Duration(i) * time.Second),
		}
		if err := backend.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	results, err := backend.Query(ctx, &report.Query{Limit: 4})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("Expected 4 records, got %d", len(results))
	}

	results, err = backend.Query(ctx, &report.Query{Limit: 4, Offset: 8})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 records past offset 8, got %d", len(results))
	}

	// Offset beyond the result set yields an empty slice
	results, err = backend.Query(ctx, &report.Query{Offset: 100})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 records, got %d", len(results))
	}
}

func TestMemoryStorage_QueryWithSorting(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	records := []*report.CheckRecord{
		{ID: "middle", GrammarPath: "grammars/a.gdl", CheckedAt: now.Add(-1 * time.Hour)},
		{ID: "oldest", GrammarPath: "grammars/a.gdl", CheckedAt: now.Add(-2 * time.Hour)},
		{ID: "newest", GrammarPath: "grammars/a.gdl", CheckedAt: now},
	}
	for _, record := range records {
		if err := backend.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	// Default is newest first
	results, err := backend.Query(ctx, &report.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].ID != "newest" || results[2].ID != "oldest" {
		t.Errorf("Descending order mismatch: got %s..%s", results[0].ID, results[2].ID)
	}

	results, err = backend.Query(ctx, &report.Query{SortOrder: "asc"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].ID != "oldest" || results[2].ID != "newest" {
		t.Errorf("Ascending order mismatch: got %s..%s", results[0].ID, results[2].ID)
	}
}

func TestMemoryStorage_Count(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 6; i++ {
		record := &report.CheckRecord{
			ID:          fmt.Sprintf("record-%d", i),
			GrammarPath: "grammars/a.gdl",
			Status:      "passed",
			CheckedAt:   now,
		}
		if i%2 == 0 {
			record.Status = "failed"
		}
		if err := backend.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	count, err := backend.Count(ctx, &report.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 6 {
		t.Errorf("Expected count 6, got %d", count)
	}

	count, err = backend.Count(ctx, &report.Query{Status: "failed"})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestMemoryStorage_Delete(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		record := &report.CheckRecord{
			ID:          fmt.Sprintf("record-%d", i),
			GrammarPath: "grammars/a.gdl",
			Status:      "passed",
			CheckedAt:   now.Add(time.Duration(-i) * time.Hour),
		}
		if err := backend.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	// Delete everything older than two hours
	until := now.Add(-2 * time.Hour)
	deleted, err := backend.Delete(ctx, &report.Query{Until: &until})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	if backend.Size() != 2 {
		t.Errorf("Expected 2 remaining records, got %d", backend.Size())
	}
}

func TestMemoryStorage_Close(t *testing.T) {
	backend := NewMemoryStorage()

	ctx := context.Background()
	if err := backend.Store(ctx, &report.CheckRecord{ID: "r1", CheckedAt: time.Now()}); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if backend.Size() != 0 {
		t.Errorf("Expected empty storage after Close(), got %d records", backend.Size())
	}
}

func TestMemoryStorage_ThreadSafety(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func(id int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				record := &report.CheckRecord{
					ID:          fmt.Sprintf("w%d-%d", id, j),
					GrammarPath: "grammars/a.gdl",
					Status:      "passed",
					CheckedAt:   time.Now(),
				}
				if err := backend.Store(ctx, record); err != nil {
					t.Errorf("Store() failed: %v", err)
				}
			}
		}(i)

		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := backend.Query(ctx, &report.Query{Limit: 10}); err != nil {
					t.Errorf("Query() failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if backend.Size() != 200 {
		t.Errorf("Expected 200 records, got %d", backend.Size())
	}
}

func TestMemoryStorage_RecordIsolation(t *testing.T) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	record := &report.CheckRecord{
		ID:          "iso-1",
		GrammarPath: "grammars/a.gdl",
		Status:      "passed",
		CheckedAt:   time.Now(),
	}

	if err := backend.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	// Mutating the original after Store must not affect the stored copy
	record.Status = "failed"

	stored := backend.GetByID("iso-1")
	if stored == nil {
		t.Fatal("GetByID() returned nil")
	}
	if stored.Status != "passed" {
		t.Errorf("Stored record mutated through caller reference: status=%s", stored.Status)
	}

	// Mutating a queried result must not affect the stored copy either
	results, err := backend.Query(ctx, &report.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	results[0].Status = "error"

	stored = backend.GetByID("iso-1")
	if stored.Status != "passed" {
		t.Errorf("Stored record mutated through query result: status=%s", stored.Status)
	}
}

// BenchmarkMemoryStorage_Store benchmarks storing records.
func BenchmarkMemoryStorage_Store(b *testing.B) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		record := &report.CheckRecord{
			ID:          fmt.Sprintf("record-%d", i),
			GrammarPath: "grammars/json.gdl",
			Status:      "passed",
			RuleCount:   7,
			CheckedAt:   now,
			RecordedAt:  now,
		}
		_ = backend.Store(ctx, record)
	}
}

// BenchmarkMemoryStorage_Query benchmarks querying records.
func BenchmarkMemoryStorage_Query(b *testing.B) {
	backend := NewMemoryStorage()
	defer backend.Close()

	ctx := context.Background()
	now := time.Now()

	// Pre-populate with 1000 records
	for i := 0; i < 1000; i++ {
		record := &report.CheckRecord{
			ID:          fmt.Sprintf("record-%d", i),
			GrammarPath: "grammars/json.gdl",
			Status:      "passed",
			CheckedAt:   now,
			RecordedAt:  now,
		}
		backend.Store(ctx, record)
	}

	query := &report.Query{
		Status: "passed",
		Limit:  100,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = backend.Query(ctx, query)
	}
}
