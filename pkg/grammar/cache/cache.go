// Package cache stores grammar check outcomes keyed by content hash, so
// unchanged files can be rechecked without reparsing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Entry is one cached check outcome. Diagnostics holds the
// JSON-encoded diagnostic list for failed checks and is nil when the
// check passed.
type Entry struct {
	Key         string    // hex SHA-256 of the grammar file contents
	Path        string    // source path at check time
	Status      string    // passed, failed, or error
	RuleCount   int       // rules found, nested rules included
	Diagnostics []byte    // JSON-encoded diagnostics, nil when none
	CreatedAt   time.Time // when the entry was cached
}

// Cache stores check outcomes keyed by content hash. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the entry for a key. The second return is false when
	// the key is not cached.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Put stores an entry, replacing any existing entry with the same
	// key. Implementations may evict old entries to stay within their
	// capacity.
	Put(ctx context.Context, entry *Entry) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)

	// Close releases any resources held by the cache.
	Close() error
}

// Key computes the cache key for grammar file contents: the
// hex-encoded SHA-256 of the raw bytes. The same value doubles as the
// grammar version reported alongside check results.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
