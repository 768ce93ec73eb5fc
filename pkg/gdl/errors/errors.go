package errors

import (
	"fmt"
	"strings"

	"mercator-hq/ganymede/pkg/gdl/ast"
)

// ErrorType categorizes the type of error encountered while loading,
// parsing, or validating a grammar definition.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // malformed grammar text
	ErrorTypeValidation ErrorType = "validation" // structural problem in a parsed tree
	ErrorTypeIO         ErrorType = "io"         // file access problem
)

// Error is a single diagnostic with its source location.
type Error struct {
	Type       ErrorType    // category of error
	Message    string       // error message
	Location   ast.Location // source location (file, line, column)
	LineText   string       // the source line the location points into
	Suggestion string       // suggested fix (optional)
}

// Error implements the error interface. It renders the diagnostic on a
// single line: "[type] line L, column C: message".
func (e *Error) Error() string {
	if !e.Location.IsValid() {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] line %d, column %d: %s",
		e.Type, e.Location.Line, e.Location.Column, e.Message)
}

// Detail renders the diagnostic together with the offending source line,
// a caret marking the column, and the suggestion when present.
func (e *Error) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if e.LineText != "" && e.Location.Column >= 1 {
		expanded, column := expandTabs(e.LineText, e.Location.Column)
		sb.WriteString("\n  | ")
		sb.WriteString(expanded)
		sb.WriteString("\n  | ")
		sb.WriteString(strings.Repeat(" ", column-1))
		sb.WriteByte('^')
	}

	if e.Suggestion != "" {
		sb.WriteString("\n  = suggestion: ")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// expandTabs replaces tabs with spaces up to the next 4-column stop,
// matching the parser's column arithmetic, and clamps the column to the
// expanded line so the caret always lands inside it.
func expandTabs(line string, column int) (string, int) {
	var sb strings.Builder
	width := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			pad := 4 - width%4
			sb.WriteString(strings.Repeat(" ", pad))
			width += pad
			continue
		}
		sb.WriteByte(line[i])
		width++
	}

	if column > width+1 {
		column = width + 1
	}
	return sb.String(), column
}

// LogicError reports a violated parser invariant: the parser was driven
// into a state its own contract forbids. Unlike a diagnostic it aborts
// the entire parse.
type LogicError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *LogicError) Error() string {
	return fmt.Sprintf("parse logic error at line %d, column %d: %s",
		e.Line, e.Column, e.Message)
}

// ErrorList represents a collection of errors encountered during
// parsing or validation. It allows accumulating multiple errors instead
// of failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error carrying a
// suggested fix.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location ast.Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface. A single entry renders as
// itself; several render as a summary line followed by one entry per
// line.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	if el.Count() == 1 {
		return el.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d errors:", el.Count())
	for _, err := range el.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list
// itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the error list contains at least one
// error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
