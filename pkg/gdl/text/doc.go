// Package text provides the character cursor used by the grammar parser.
//
// Buffer wraps a source string and tracks a cursor as a Position (byte
// index, 1-based line, 1-based column). Line starts and leading-whitespace
// widths are computed once at construction, so indentation queries and
// block recovery never rescan the text.
//
// # Indentation
//
// Indentation is measured in columns: a space counts 1, a tab counts 4.
// Lines indented at least 8 columns past the enclosing block continue the
// previous line, and SkipSpace crosses into them when asked to overflow:
//
//	rule: 'one' 'two'
//	            'three'
//
// # Comments
//
// A skip hook installed with SetCommentSkip is consulted wherever
// whitespace is skipped, letting the parser treat comments as blank
// space without the buffer knowing their syntax.
//
// # Recovery
//
// SkipBlock advances past the remainder of the current indented block,
// leaving the cursor on the newline before the next line at or below the
// current line's indentation. Parsers call it to resynchronize after a
// malformed declaration so that later declarations still produce
// diagnostics.
package text
