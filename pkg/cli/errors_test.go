package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "reports.backend",
		Message: "must be 'memory' or 'sqlite'",
	}

	expected := "config error in reports.backend: must be 'memory' or 'sqlite'"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "check",
		Err:     underlyingErr,
	}

	expected := "command check failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "check",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestExitError(t *testing.T) {
	underlyingErr := errors.New("found 2 problem(s)")
	err := NewExitError(1, underlyingErr)

	if err.Code != 1 {
		t.Errorf("Code = %d, want 1", err.Code)
	}
	if err.Error() != "found 2 problem(s)" {
		t.Errorf("Error() = %q, want the wrapped message", err.Error())
	}
}

func TestExitErrorWithoutCause(t *testing.T) {
	err := &ExitError{Code: 3}

	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit status 3")
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("unreadable grammar file")
	wrapped := fmt.Errorf("check failed: %w", NewExitError(2, underlyingErr))

	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("errors.As() should find the ExitError through wrapping")
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}

	if !errors.Is(wrapped, underlyingErr) {
		t.Error("errors.Is() should reach the underlying error")
	}
}
