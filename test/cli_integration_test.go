//go:build integration

package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestCheckValidGrammar tests checking a clean grammar file
func TestCheckValidGrammar(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	grammarFile := filepath.Join(tmpDir, "number.gdl")
	createGrammar(t, grammarFile, validGrammar)

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "check", grammarFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("check failed: %v\nOutput: %s", err, output)
	}

	if !bytes.Contains(output, []byte("no problems found")) {
		t.Errorf("expected 'no problems found' in output, got: %s", output)
	}
	if !bytes.Contains(output, []byte("1 passed")) {
		t.Errorf("expected '1 passed' in summary, got: %s", output)
	}
}

// TestCheckDiagnosticsExitCode tests that grammar problems exit with 1
func TestCheckDiagnosticsExitCode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	grammarFile := filepath.Join(tmpDir, "broken.gdl")
	createGrammar(t, grammarFile, brokenGrammar)

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "check", grammarFile)
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("check should fail on a broken grammar\nOutput: %s", output)
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected exit error, got: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1\nOutput: %s", exitErr.ExitCode(), output)
	}

	// Both problems must be reported in one pass
	if !bytes.Contains(output, []byte("unexpected end-of-line in constant")) {
		t.Errorf("expected constant diagnostic in output, got: %s", output)
	}
	if !bytes.Contains(output, []byte("no children found")) {
		t.Errorf("expected name-extension diagnostic in output, got: %s", output)
	}
}

// TestCheckUnreadableExitCode tests that missing files exit with 2
func TestCheckUnreadableExitCode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "check", "does-not-exist.gdl")
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("check should fail on a missing file\nOutput: %s", output)
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected exit error, got: %v", err)
	}
	if exitErr.ExitCode() != 2 {
		t.Errorf("exit code = %d, want 2\nOutput: %s", exitErr.ExitCode(), output)
	}
}

// TestCheckJSONOutput tests machine-readable check output
func TestCheckJSONOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	grammarFile := filepath.Join(tmpDir, "number.gdl")
	createGrammar(t, grammarFile, validGrammar)

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "check", grammarFile, "--format", "json")
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("check failed: %v\nOutput: %s", err, output)
	}

	var reports []map[string]interface{}
	if err := json.Unmarshal(output, &reports); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}

	if reports[0]["valid"] != true {
		t.Errorf("expected valid=true, got: %+v", reports[0])
	}
	if reports[0]["rules"].(float64) != 2 {
		t.Errorf("expected 2 rules, got: %v", reports[0]["rules"])
	}
}

// TestTreeOutput tests rendering the parsed rule tree
func TestTreeOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	grammarFile := filepath.Join(tmpDir, "number.gdl")
	createGrammar(t, grammarFile, validGrammar)

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "tree", grammarFile)
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("tree failed: %v\nOutput: %s", err, output)
	}

	// The tree renders back to grammar text
	if !bytes.Contains(output, []byte("number:")) {
		t.Errorf("expected 'number:' in tree output, got: %s", output)
	}
	if !bytes.Contains(output, []byte("digit:")) {
		t.Errorf("expected 'digit:' in tree output, got: %s", output)
	}
}

// TestReportsPipeline tests check recording and report querying
func TestReportsPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "reports.db")

	// Create config with reports enabled
	configFile := filepath.Join(tmpDir, "config.yaml")
	createTestConfig(t, configFile, fmt.Sprintf(`
reports:
  enabled: true
  backend: "sqlite"
  path: "%s"

logging:
  level: "warn"
  format: "json"
`, dbPath))

	grammarFile := filepath.Join(tmpDir, "number.gdl")
	createGrammar(t, grammarFile, validGrammar)

	binaryPath := buildGanymedeBinary(t)

	// Step 1: Check with recording enabled
	t.Log("Step 1: Checking grammar with reports enabled...")
	checkCmd := exec.Command(binaryPath, "check", "--config", configFile, grammarFile)
	output, err := checkCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("check failed: %v\nOutput: %s", err, output)
	}

	// Step 2: Query recorded reports
	t.Log("Step 2: Querying check reports...")
	listCmd := exec.Command(binaryPath, "reports", "list",
		"--config", configFile,
		"--format", "json")

	output, err = listCmd.Output()
	if err != nil {
		t.Fatalf("reports list failed: %v\nOutput: %s", err, output)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(output, &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	records, ok := result["records"].([]interface{})
	if !ok {
		t.Fatalf("JSON output missing 'records' field: %+v", result)
	}
	if len(records) == 0 {
		t.Error("expected check records, got none")
	}

	t.Logf("Successfully queried %d check records", len(records))

	// Step 3: Export to CSV
	t.Log("Step 3: Exporting reports to CSV...")
	csvPath := filepath.Join(tmpDir, "reports.csv")
	exportCmd := exec.Command(binaryPath, "reports", "export",
		"--config", configFile,
		"--format", "csv",
		"--output", csvPath)

	output, err = exportCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("reports export failed: %v\nOutput: %s", err, output)
	}

	csvData, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("failed to read exported CSV: %v", err)
	}
	if !bytes.Contains(csvData, []byte("grammar_path")) {
		t.Errorf("expected CSV header in export, got: %s", csvData)
	}
}

// TestCommandVersionOutput tests the version command
func TestCommandVersionOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildGanymedeBinary(t)

	cmd := exec.Command(binaryPath, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	if !bytes.Contains(output, []byte("Ganymede")) {
		t.Errorf("version output should contain 'Ganymede', got: %s", output)
	}
}

// Helper functions

const validGrammar = `# Signed decimal numbers.
number: '-'? digit+

digit: ['0' - '9']
`

const brokenGrammar = `greeting: 'hello

empty...

closing: 'ok'
`

// buildGanymedeBinary builds the ganymede binary for testing
func buildGanymedeBinary(t *testing.T) string {
	t.Helper()

	// Check if binary already exists in bin/
	binaryPath := "../bin/ganymede"
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	// Build the binary
	t.Log("Building ganymede binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/ganymede")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build ganymede: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

// createGrammar creates a grammar file for testing
func createGrammar(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create grammar file: %v", err)
	}
}

// createTestConfig creates a test configuration file
func createTestConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}
}
