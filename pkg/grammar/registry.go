package grammar

import (
	"sort"
	"sync"
	"time"
)

// Entry describes the last known state of a checked grammar file.
type Entry struct {
	// Path is the grammar file path.
	Path string

	// Version is the hex-encoded SHA-256 of the file contents.
	Version string

	// Status is the outcome of the last check.
	Status Status

	// RuleCount is the number of rules found, nested rules included.
	// It is zero when parsing failed.
	RuleCount int

	// CheckedAt is when the last check completed.
	CheckedAt time.Time
}

// Registry tracks the current state of every grammar file seen by the
// manager. It is safe for concurrent use; watch mode updates it from the
// reload goroutine while status queries read it.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Put records the state of a grammar file, replacing any previous entry.
func (r *Registry) Put(entry *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Path] = entry
}

// Get returns the entry for a path, if one exists.
func (r *Registry) Get(path string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[path]
	return entry, ok
}

// Remove deletes the entry for a path.
func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, path)
}

// Len returns the number of tracked grammar files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of all entries sorted by path.
func (r *Registry) Snapshot() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		copied := *entry
		entries = append(entries, &copied)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}
