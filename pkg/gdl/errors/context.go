package errors

import (
	"fmt"
	"strings"

	"mercator-hq/ganymede/pkg/gdl/ast"
)

// ExtractContext renders the lines surrounding the given location in
// the grammar source, with line numbers and a marker on the error line.
// Tooling uses it for verbose diagnostic output; the source is passed
// in directly since callers already hold the text they parsed.
func ExtractContext(source string, location ast.Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	start := errorLine - contextLines
	if start < 0 {
		start = 0
	}
	end := errorLine + contextLines
	if end >= len(lines) {
		end = len(lines) - 1
	}

	numberWidth := len(fmt.Sprintf("%d", end+1))

	var sb strings.Builder
	for i := start; i <= end; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		expanded, column := expandTabs(lines[i], location.Column)
		fmt.Fprintf(&sb, "%s %*d | %s\n", prefix, numberWidth, i+1, expanded)

		if i == errorLine && location.Column > 0 {
			fmt.Fprintf(&sb, "   %s | %s^\n",
				strings.Repeat(" ", numberWidth),
				strings.Repeat(" ", column-1))
		}
	}

	return sb.String()
}
