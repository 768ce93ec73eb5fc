package grammar

import "fmt"

// LoadError represents a failure to read a grammar file from disk.
type LoadError struct {
	Path  string // File that could not be loaded
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load grammar %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a new LoadError.
func NewLoadError(path string, cause error) *LoadError {
	return &LoadError{
		Path:  path,
		Cause: cause,
	}
}

// WatchError represents a failure in the file watching machinery.
type WatchError struct {
	Path  string // Watched path
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *WatchError) Error() string {
	return fmt.Sprintf("watch error for %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *WatchError) Unwrap() error {
	return e.Cause
}

// NewWatchError creates a new WatchError.
func NewWatchError(path string, cause error) *WatchError {
	return &WatchError{
		Path:  path,
		Cause: cause,
	}
}
