package grammar

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Loader reads grammar files from disk with safety checks applied
// before any parsing happens: size caps, regular-file checks, and
// UTF-8 validation.
type Loader struct {
	maxFileSize int64
	extensions  []string
}

// NewLoader creates a loader with the given size cap and the set of
// file extensions recognized as grammar files.
func NewLoader(maxFileSize int64, extensions []string) *Loader {
	if len(extensions) == 0 {
		extensions = []string{".gdl"}
	}
	return &Loader{
		maxFileSize: maxFileSize,
		extensions:  extensions,
	}
}

// LoadFile reads a grammar file and returns its contents.
// It rejects missing files, non-regular files, files over the size cap,
// and files that are not valid UTF-8.
func (l *Loader) LoadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Callers distinguish deletions with errors.Is(err, fs.ErrNotExist)
			return nil, NewLoadError(path, fs.ErrNotExist)
		}
		return nil, NewLoadError(path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, NewLoadError(path, fmt.Errorf("not a regular file"))
	}

	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return nil, NewLoadError(path, fmt.Errorf("file size %d exceeds limit %d bytes", info.Size(), l.maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	if !utf8.Valid(data) {
		return nil, NewLoadError(path, fmt.Errorf("file is not valid UTF-8"))
	}

	return data, nil
}

// IsGrammarFile reports whether the path has a recognized grammar extension.
func (l *Loader) IsGrammarFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range l.extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// FindGrammarFiles walks root and returns every grammar file beneath it,
// sorted by the walk order (lexical within each directory). Hidden files
// and directories are skipped. If root is itself a grammar file, it is
// returned alone.
func (l *Loader) FindGrammarFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, NewLoadError(root, err)
	}

	if !info.IsDir() {
		if !l.IsGrammarFile(root) {
			return nil, NewLoadError(root, fmt.Errorf("not a grammar file"))
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && l.IsGrammarFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewLoadError(root, err)
	}

	return paths, nil
}

// isHidden reports whether the path's base name starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
