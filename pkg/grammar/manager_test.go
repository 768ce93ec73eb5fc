package grammar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
	"mercator-hq/ganymede/pkg/grammar/cache"
)

const validGrammar = `digit: ['0' - '9']

number...
    integer: digit+
    value: integer
`

const duplicateGrammar = `digit: ['0' - '9']
digit: ['a' - 'f']
`

const brokenGrammar = "bad_one 'x'\n"

func writeGrammar(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManagerCheckPassed(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "number.gdl", validGrammar)
	m := NewManager(nil, nil, nil, nil)

	result := m.Check(context.Background(), path)

	if result.Status != StatusPassed {
		t.Fatalf("Status = %q, want passed (diagnostics: %v)", result.Status, result.Diagnostics)
	}
	if result.Grammar == nil {
		t.Fatal("Grammar = nil, want parsed tree")
	}
	if result.RuleCount != 4 {
		t.Errorf("RuleCount = %d, want 4", result.RuleCount)
	}
	if len(result.Version) != 64 {
		t.Errorf("Version length = %d, want 64 hex characters", len(result.Version))
	}
	if result.FromCache {
		t.Error("FromCache = true, want false without a cache")
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", result.Diagnostics)
	}

	entry, ok := m.Registry().Get(path)
	if !ok {
		t.Fatal("Registry has no entry after Check")
	}
	if entry.Status != StatusPassed {
		t.Errorf("Registry status = %q, want passed", entry.Status)
	}
	if entry.Version != result.Version {
		t.Errorf("Registry version = %q, want %q", entry.Version, result.Version)
	}
}

func TestManagerCheckSyntaxFailure(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "broken.gdl", brokenGrammar)
	m := NewManager(nil, nil, nil, nil)

	result := m.Check(context.Background(), path)

	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want failed", result.Status)
	}
	if result.Grammar != nil {
		t.Error("Grammar != nil alongside diagnostics")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatal("Diagnostics empty, want at least one")
	}
	if result.Diagnostics[0].Type != gdlErrors.ErrorTypeSyntax {
		t.Errorf("Diagnostics[0].Type = %q, want syntax", result.Diagnostics[0].Type)
	}
	if result.RuleCount != 0 {
		t.Errorf("RuleCount = %d, want 0 when parsing failed", result.RuleCount)
	}

	entry, ok := m.Registry().Get(path)
	if !ok {
		t.Fatal("Registry has no entry after failed check")
	}
	if entry.Status != StatusFailed {
		t.Errorf("Registry status = %q, want failed", entry.Status)
	}
}

func TestManagerCheckValidationFailure(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "duplicate.gdl", duplicateGrammar)
	m := NewManager(nil, nil, nil, nil)

	result := m.Check(context.Background(), path)

	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want failed", result.Status)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("Diagnostics count = %d, want 1: %v", len(result.Diagnostics), result.Diagnostics)
	}

	diag := result.Diagnostics[0]
	if diag.Type != gdlErrors.ErrorTypeValidation {
		t.Errorf("Type = %q, want validation", diag.Type)
	}
	if !strings.Contains(diag.Message, "redefinition of rule 'digit'") {
		t.Errorf("Message = %q, want redefinition of rule 'digit'", diag.Message)
	}
	// The tree parsed, so the rules are still countable
	if result.RuleCount != 2 {
		t.Errorf("RuleCount = %d, want 2", result.RuleCount)
	}
}

func TestManagerCheckMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.gdl")
	m := NewManager(nil, nil, nil, nil)

	result := m.Check(context.Background(), missing)

	if result.Status != StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("Diagnostics count = %d, want 1", len(result.Diagnostics))
	}
	if result.Diagnostics[0].Type != gdlErrors.ErrorTypeIO {
		t.Errorf("Type = %q, want io", result.Diagnostics[0].Type)
	}
	if result.Version != "" {
		t.Errorf("Version = %q, want empty for unreadable file", result.Version)
	}

	if _, ok := m.Registry().Get(missing); ok {
		t.Error("Registry has an entry for a missing file")
	}
}

func TestManagerCheckRemovedFileDropsRegistryEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "number.gdl", validGrammar)
	m := NewManager(nil, nil, nil, nil)

	m.Check(context.Background(), path)
	if _, ok := m.Registry().Get(path); !ok {
		t.Fatal("Registry has no entry after first check")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	result := m.Check(context.Background(), path)
	if result.Status != StatusError {
		t.Fatalf("Status = %q, want error", result.Status)
	}
	if _, ok := m.Registry().Get(path); ok {
		t.Error("Registry still has an entry for a removed file")
	}
}

func TestManagerCheckFromCache(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "number.gdl", validGrammar)
	parseCache := cache.NewMemoryCache(0)
	defer parseCache.Close()

	m := NewManager(nil, parseCache, nil, nil)
	ctx := context.Background()

	first := m.Check(ctx, path)
	if first.FromCache {
		t.Fatal("First check FromCache = true, want false")
	}
	if first.Status != StatusPassed {
		t.Fatalf("First check status = %q, want passed", first.Status)
	}

	second := m.Check(ctx, path)
	if !second.FromCache {
		t.Fatal("Second check FromCache = false, want true")
	}
	if second.Status != StatusPassed {
		t.Errorf("Second check status = %q, want passed", second.Status)
	}
	if second.Version != first.Version {
		t.Errorf("Version changed: %q vs %q", second.Version, first.Version)
	}
	if second.RuleCount != first.RuleCount {
		t.Errorf("RuleCount changed: %d vs %d", second.RuleCount, first.RuleCount)
	}
	if second.Grammar != nil {
		t.Error("Cached result carries a tree, want nil")
	}
}

func TestManagerCheckCachedDiagnostics(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "duplicate.gdl", duplicateGrammar)
	parseCache := cache.NewMemoryCache(0)
	defer parseCache.Close()

	m := NewManager(nil, parseCache, nil, nil)
	ctx := context.Background()

	first := m.Check(ctx, path)
	if first.Status != StatusFailed {
		t.Fatalf("First check status = %q, want failed", first.Status)
	}

	second := m.Check(ctx, path)
	if !second.FromCache {
		t.Fatal("Second check FromCache = false, want true")
	}
	if len(second.Diagnostics) != len(first.Diagnostics) {
		t.Fatalf("Cached diagnostics count = %d, want %d", len(second.Diagnostics), len(first.Diagnostics))
	}

	got, want := second.Diagnostics[0], first.Diagnostics[0]
	if got.Message != want.Message {
		t.Errorf("Cached message = %q, want %q", got.Message, want.Message)
	}
	if got.Type != want.Type {
		t.Errorf("Cached type = %q, want %q", got.Type, want.Type)
	}
	if got.Suggestion != want.Suggestion {
		t.Errorf("Cached suggestion = %q, want %q", got.Suggestion, want.Suggestion)
	}
	if got.Location.Line != want.Location.Line {
		t.Errorf("Cached line = %d, want %d", got.Location.Line, want.Location.Line)
	}
}

func TestManagerCheckEditInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "number.gdl", validGrammar)
	parseCache := cache.NewMemoryCache(0)
	defer parseCache.Close()

	m := NewManager(nil, parseCache, nil, nil)
	ctx := context.Background()

	first := m.Check(ctx, path)

	writeGrammar(t, dir, "number.gdl", validGrammar+"\nletter: ['a' - 'z']\n")

	second := m.Check(ctx, path)
	if second.FromCache {
		t.Error("Second check FromCache = true after edit, want false")
	}
	if second.Version == first.Version {
		t.Error("Version unchanged after edit")
	}
	if second.RuleCount != first.RuleCount+1 {
		t.Errorf("RuleCount = %d, want %d", second.RuleCount, first.RuleCount+1)
	}
}

func TestManagerCheckCorruptedCacheEntry(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "number.gdl", validGrammar)
	parseCache := cache.NewMemoryCache(0)
	defer parseCache.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Seed an entry whose diagnostics cannot be decoded
	err = parseCache.Put(context.Background(), &cache.Entry{
		Key:         cache.Key(data),
		Path:        path,
		Status:      string(StatusFailed),
		Diagnostics: []byte("not json"),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	m := NewManager(nil, parseCache, nil, nil)
	result := m.Check(context.Background(), path)

	if result.FromCache {
		t.Error("FromCache = true for corrupted entry, want fresh parse")
	}
	if result.Status != StatusPassed {
		t.Errorf("Status = %q, want passed from the fresh parse", result.Status)
	}
}

func TestManagerCheckAll(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "a.gdl", validGrammar)
	writeGrammar(t, dir, "b.gdl", brokenGrammar)
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeGrammar(t, dir, filepath.Join("sub", "c.gdl"), "lower: ['a' - 'z']\n")

	m := NewManager(nil, nil, nil, nil)
	results, err := m.CheckAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("CheckAll() error = %v, want nil", err)
	}
	if len(results) != 3 {
		t.Fatalf("CheckAll() returned %d results, want 3", len(results))
	}

	wantStatus := []Status{StatusPassed, StatusFailed, StatusPassed}
	for i, want := range wantStatus {
		if results[i].Status != want {
			t.Errorf("results[%d].Status = %q, want %q (path %s)", i, results[i].Status, want, results[i].Path)
		}
	}

	if m.Registry().Len() != 3 {
		t.Errorf("Registry.Len() = %d, want 3", m.Registry().Len())
	}
}

func TestManagerCheckAllMissingRoot(t *testing.T) {
	m := NewManager(nil, nil, nil, nil)

	_, err := m.CheckAll(context.Background(), filepath.Join(t.TempDir(), "nowhere"))
	if err == nil {
		t.Fatal("CheckAll() error = nil, want error for missing root")
	}
}

func TestManagerParse(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "number.gdl", validGrammar)
	m := NewManager(nil, nil, nil, nil)

	grammarTree, err := m.Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(grammarTree.Rules) != 2 {
		t.Errorf("Parse() top-level rules = %d, want 2", len(grammarTree.Rules))
	}
}

func TestManagerParseFailure(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "broken.gdl", brokenGrammar)
	m := NewManager(nil, nil, nil, nil)

	_, err := m.Parse(path)
	if err == nil {
		t.Fatal("Parse() error = nil, want syntax errors")
	}
	if _, ok := err.(*gdlErrors.ErrorList); !ok {
		t.Errorf("Parse() error type = %T, want *errors.ErrorList", err)
	}
}

func TestManagerWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "number.gdl", validGrammar)

	m := NewManager(&ManagerConfig{Debounce: 50 * time.Millisecond}, nil, nil, nil)

	results := make(chan *CheckResult, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, dir, func(result *CheckResult) {
			results <- result
		})
	}()

	// Initial pass
	select {
	case result := <-results:
		if result.Path != path {
			t.Errorf("Initial result path = %q, want %q", result.Path, path)
		}
		if result.Status != StatusPassed {
			t.Errorf("Initial result status = %q, want passed", result.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No initial result from Watch")
	}

	// Give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	writeGrammar(t, dir, "number.gdl", brokenGrammar)

	select {
	case result := <-results:
		if result.Status != StatusFailed {
			t.Errorf("Recheck status = %q, want failed", result.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No recheck result after file modification")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after context cancel")
	}
}

func TestManagerWatchMissingRoot(t *testing.T) {
	m := NewManager(nil, nil, nil, nil)

	err := m.Watch(context.Background(), filepath.Join(t.TempDir(), "nowhere"), nil)
	if err == nil {
		t.Fatal("Watch() error = nil, want error for missing root")
	}
}

func TestManagerConfigDefaults(t *testing.T) {
	m := NewManager(&ManagerConfig{}, nil, nil, nil)

	if m.config.MaxFileSize != 10*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 10MB", m.config.MaxFileSize)
	}
	if m.config.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", m.config.MaxDepth)
	}
	if len(m.config.Extensions) != 1 || m.config.Extensions[0] != ".gdl" {
		t.Errorf("Extensions = %v, want [.gdl]", m.config.Extensions)
	}
	if m.config.Debounce != 200*time.Millisecond {
		t.Errorf("Debounce = %v, want 200ms", m.config.Debounce)
	}
}
