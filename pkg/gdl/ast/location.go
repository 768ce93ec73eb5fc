package ast

import "fmt"

// Location identifies a point in a grammar source file for error
// reporting.
type Location struct {
	File   string // path to the grammar file, empty for in-memory text
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column", without the file part when none is known.
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location carries line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}
