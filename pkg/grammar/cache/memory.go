package cache

import (
	"context"
	"sync"
)

// MemoryCache implements Cache using an in-memory map. Entries do not
// survive process restarts.
type MemoryCache struct {
	entries    map[string]*Entry
	maxEntries int
	mu         sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache. A maxEntries of zero
// or less means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
	}
}

// Get returns the entry for a key.
func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}

	// Return a copy to avoid mutation
	entryCopy := *entry
	return &entryCopy, true, nil
}

// Put stores an entry, evicting the oldest entry when the cache is at
// capacity.
func (c *MemoryCache) Put(ctx context.Context, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.Key]; !exists {
		for c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}

	entryCopy := *entry
	c.entries[entry.Key] = &entryCopy

	return nil
}

// evictOldestLocked removes the entry with the earliest CreatedAt.
// Callers must hold the write lock.
func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	first := true
	for key, entry := range c.entries {
		if first || entry.CreatedAt.Before(c.entries[oldestKey].CreatedAt) {
			oldestKey = key
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries), nil
}

// Close clears the cache.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	return nil
}
