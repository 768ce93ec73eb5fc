package storage

import (
	"context"
	"sort"
	"sync"

	"mercator-hq/ganymede/pkg/report"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// Records do not survive the process, so queries only see checks recorded
// in the same run.
type MemoryStorage struct {
	records map[string]*report.CheckRecord
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*report.CheckRecord),
	}
}

// Store persists a check record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *report.CheckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create a copy to avoid mutation
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves check records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *report.Query) ([]*report.CheckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.collect(query)

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return []*report.CheckRecord{}, nil
	}

	end := len(results)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}

	return results[start:end], nil
}

// QueryStream returns a channel of check records for memory-efficient streaming.
// The channels will be closed when the query completes or errors.
func (s *MemoryStorage) QueryStream(ctx context.Context, query *report.Query) (<-chan *report.CheckRecord, <-chan error, error) {
	recordsCh := make(chan *report.CheckRecord, 100) // Buffer 100 records
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		records, err := s.Query(ctx, query)
		if err != nil {
			errCh <- err
			return
		}

		for _, record := range records {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of check records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *report.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes check records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *report.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	toDelete := []string{}
	for id, record := range s.records {
		if s.matchesQuery(record, query) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.records, id)
		deleted++
	}

	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*report.CheckRecord)
	return nil
}

// collect returns copies of all matching records sorted by check time.
// Callers must hold at least a read lock.
func (s *MemoryStorage) collect(query *report.Query) []*report.CheckRecord {
	var results []*report.CheckRecord
	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if query.SortOrder == "asc" {
			return results[i].CheckedAt.Before(results[j].CheckedAt)
		}
		return results[i].CheckedAt.After(results[j].CheckedAt)
	})

	return results
}

// matchesQuery checks if a record matches the query filters.
func (s *MemoryStorage) matchesQuery(record *report.CheckRecord, query *report.Query) bool {
	// Grammar path filter
	if query.GrammarPath != "" && record.GrammarPath != query.GrammarPath {
		return false
	}

	// Status filter
	if query.Status != "" && record.Status != query.Status {
		return false
	}

	// Time range filter
	if query.Since != nil && record.CheckedAt.Before(*query.Since) {
		return false
	}
	if query.Until != nil && record.CheckedAt.After(*query.Until) {
		return false
	}

	return true
}

// Clear removes all records from storage (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*report.CheckRecord)
}

// GetByID retrieves a single check record by ID (for testing).
func (s *MemoryStorage) GetByID(id string) *report.CheckRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}

	recordCopy := *record
	return &recordCopy
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
