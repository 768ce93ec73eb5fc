package errors

import (
	"strings"
	"testing"

	"mercator-hq/ganymede/pkg/gdl/ast"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:     ErrorTypeSyntax,
		Message:  "expected a term",
		Location: ast.Location{Line: 2, Column: 8},
	}
	want := "[syntax] line 2, column 8: expected a term"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &Error{Type: ErrorTypeIO, Message: "no such file"}
	if got := err.Error(); got != "[io] no such file" {
		t.Errorf("Error() = %q, want %q", got, "[io] no such file")
	}
}

func TestError_Detail(t *testing.T) {
	err := &Error{
		Type:     ErrorTypeSyntax,
		Message:  "expected a term",
		Location: ast.Location{Line: 2, Column: 8},
		LineText: "value: :",
	}

	want := "[syntax] line 2, column 8: expected a term\n" +
		"  | value: :\n" +
		"  |        ^"
	if got := err.Detail(); got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}

func TestError_Detail_ExpandsTabs(t *testing.T) {
	err := &Error{
		Type:     ErrorTypeSyntax,
		Message:  "invalid indentation level",
		Location: ast.Location{Line: 1, Column: 5},
		LineText: "\tx",
	}

	detail := err.Detail()
	if !strings.Contains(detail, "  |     x\n") {
		t.Errorf("Detail() = %q, want tab expanded to four spaces", detail)
	}
	if !strings.HasSuffix(detail, "  |     ^") {
		t.Errorf("Detail() = %q, want caret under column 5", detail)
	}
}

func TestError_Detail_Suggestion(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeValidation,
		Message:    "redefinition of rule 'value'",
		Location:   ast.Location{Line: 4, Column: 1},
		LineText:   "value: 'x'",
		Suggestion: "rename or remove one of the declarations",
	}

	detail := err.Detail()
	if !strings.HasSuffix(detail, "  = suggestion: rename or remove one of the declarations") {
		t.Errorf("Detail() = %q, want trailing suggestion", detail)
	}
}

func TestErrorList_Accumulates(t *testing.T) {
	list := NewErrorList()
	if list.HasErrors() {
		t.Error("new list HasErrors() = true, want false")
	}
	if list.ToError() != nil {
		t.Error("new list ToError() != nil")
	}

	list.AddError(ErrorTypeSyntax, "expected a term", ast.Location{Line: 1, Column: 3})
	list.AddError(ErrorTypeValidation, "redefinition of rule 'a'", ast.Location{Line: 2, Column: 1})

	if list.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", list.Count())
	}
	if !list.HasErrorType(ErrorTypeSyntax) {
		t.Error("HasErrorType(syntax) = false, want true")
	}
	if list.HasErrorType(ErrorTypeIO) {
		t.Error("HasErrorType(io) = true, want false")
	}
	if syntax := list.ByType(ErrorTypeSyntax); len(syntax) != 1 {
		t.Errorf("len(ByType(syntax)) = %d, want 1", len(syntax))
	}
	if list.ToError() == nil {
		t.Error("ToError() = nil, want error")
	}
}

func TestErrorList_Error(t *testing.T) {
	list := NewErrorList()
	list.AddError(ErrorTypeSyntax, "empty constant", ast.Location{Line: 1, Column: 6})

	// A single entry renders as itself.
	if got := list.Error(); got != "[syntax] line 1, column 6: empty constant" {
		t.Errorf("Error() = %q", got)
	}

	list.AddError(ErrorTypeSyntax, "expected ')'", ast.Location{Line: 2, Column: 9})
	got := list.Error()
	if !strings.HasPrefix(got, "found 2 errors:") {
		t.Errorf("Error() = %q, want found 2 errors prefix", got)
	}
	if !strings.Contains(got, "expected ')'") {
		t.Errorf("Error() = %q, want second entry present", got)
	}
}

func TestExtractContext(t *testing.T) {
	source := "foo: 'a'\nbar: ?\nbaz: 'c'"
	location := ast.Location{Line: 2, Column: 6}

	want := "   1 | foo: 'a'\n" +
		"-> 2 | bar: ?\n" +
		"     |      ^\n" +
		"   3 | baz: 'c'\n"
	if got := ExtractContext(source, location, 1); got != want {
		t.Errorf("ExtractContext() = %q, want %q", got, want)
	}
}

func TestExtractContext_Invalid(t *testing.T) {
	if got := ExtractContext("foo", ast.Location{}, 2); got != "" {
		t.Errorf("ExtractContext() = %q, want empty", got)
	}
	if got := ExtractContext("foo", ast.Location{Line: 9, Column: 1}, 2); got != "" {
		t.Errorf("ExtractContext() past end = %q, want empty", got)
	}
}

func TestLogicError_Error(t *testing.T) {
	err := &LogicError{Message: "incomplete rule parse", Line: 3, Column: 7}
	want := "parse logic error at line 3, column 7: incomplete rule parse"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
