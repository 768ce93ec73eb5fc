package text

import "fmt"

// Position is a snapshot of a Buffer's cursor. Snapshots taken with
// Buffer.Position can be restored later with Buffer.SetPosition, which
// makes speculative parsing and error recovery cheap.
type Position struct {
	Index  int // byte offset from the start of the text
	Line   int // line number (1-based)
	Column int // column number (1-based)

	// blockIndentation is the indentation of the block the cursor is
	// inside, used to recognize continuation lines. It travels with the
	// position so restoring a snapshot keeps it consistent.
	blockIndentation int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Buffer is a read cursor over grammar source text with per-line
// indentation bookkeeping. The zero value is not usable; construct with
// NewBuffer.
type Buffer struct {
	text   string
	length int

	lineIndices      []int
	lineIndentations []int
	lineCount        int

	position Position

	commentSkip func(*Buffer) bool
}

// NewBuffer creates a buffer over the given text with the cursor at the
// start. Line starts and indentations are indexed up front. Text ending
// in a newline gains a final empty line, so the cursor always rests on a
// valid line even after consuming the last newline.
func NewBuffer(text string) *Buffer {
	b := &Buffer{
		text:   text,
		length: len(text),
	}

	for offset := 0; offset < b.length; offset++ {
		b.lineIndices = append(b.lineIndices, offset)

		indentation := 0
		for offset < b.length {
			if text[offset] == '\t' {
				indentation += 4
			} else if text[offset] == ' ' {
				indentation++
			} else {
				break
			}
			offset++
		}

		for offset < b.length && text[offset] != '\n' {
			offset++
		}

		b.lineIndentations = append(b.lineIndentations, indentation)
	}

	if b.length == 0 || text[b.length-1] == '\n' {
		b.lineIndices = append(b.lineIndices, b.length)
		b.lineIndentations = append(b.lineIndentations, 0)
	}

	b.lineCount = len(b.lineIndentations)
	b.position = Position{
		Index:            0,
		Line:             1,
		Column:           1,
		blockIndentation: b.lineIndentations[0],
	}

	return b
}

// SetCommentSkip installs a hook consulted during whitespace skipping.
// The hook reports whether it consumed a comment; it must not consume
// anything when it reports false.
func (b *Buffer) SetCommentSkip(skip func(*Buffer) bool) {
	b.commentSkip = skip
}

// EndReached reports whether the cursor has consumed all of the text.
func (b *Buffer) EndReached() bool {
	return b.position.Index >= b.length
}

// Position returns a snapshot of the cursor.
func (b *Buffer) Position() Position {
	return b.position
}

// SetPosition restores a snapshot previously taken with Position.
func (b *Buffer) SetPosition(position Position) {
	b.position = position
}

// LineCount returns the number of lines in the text, including the
// final empty line added when the text ends in a newline.
func (b *Buffer) LineCount() int {
	return b.lineCount
}

// LineText returns the text of the given line without its newline.
// A line number less than 1 selects the current line; a line number past
// the end returns the empty string.
func (b *Buffer) LineText(line int) string {
	if line < 1 {
		line = b.position.Line
	} else if line > b.lineCount {
		return ""
	}

	start := b.lineIndices[line-1]
	end := start
	for end < b.length && b.text[end] != '\n' {
		end++
	}
	return b.text[start:end]
}

// LineIndentation returns the leading-whitespace width of the given
// line in columns. A line number less than 1 selects the current line;
// a line number past the end returns 0.
func (b *Buffer) LineIndentation(line int) int {
	if line < 1 {
		line = b.position.Line
	} else if line > b.lineCount {
		return 0
	}
	return b.lineIndentations[line-1]
}

// Indentation returns the current line's leading-whitespace width in
// columns.
func (b *Buffer) Indentation() int {
	return b.LineIndentation(b.position.Line)
}

// IndentationDelta returns the indentation of the next non-empty line
// relative to the given reference line. The cursor does not move. A
// reference less than 1 selects the current line; a reference on or past
// the last line returns 0.
func (b *Buffer) IndentationDelta(reference int) int {
	if reference < 1 {
		reference = b.position.Line
	}
	if reference >= b.lineCount {
		return 0
	}

	saved := b.position
	b.SkipWhitespace()
	next := b.position.Line
	b.position = saved

	return b.lineIndentations[next-1] - b.lineIndentations[reference-1]
}

// Peek returns the current character without consuming it, or 0 at the
// end of the text.
func (b *Buffer) Peek() byte {
	if b.position.Index < b.length {
		return b.text[b.position.Index]
	}
	return 0
}

// PeekByte reports whether the current character matches the given one.
func (b *Buffer) PeekByte(character byte) bool {
	return b.Peek() == character
}

// PeekString reports whether the given string starts at the cursor.
func (b *Buffer) PeekString(s string) bool {
	if b.position.Index+len(s) > b.length {
		return false
	}
	return b.text[b.position.Index:b.position.Index+len(s)] == s
}

// Read consumes and returns the current character, or 0 at the end of
// the text.
func (b *Buffer) Read() byte {
	character := b.Peek()
	b.increment()
	return character
}

// ReadByte consumes the current character if it matches the given one,
// reporting whether it did.
func (b *Buffer) ReadByte(character byte) bool {
	if b.Peek() != character {
		return false
	}
	b.increment()
	return true
}

// ReadString consumes the given string if it starts at the cursor,
// reporting whether it did.
func (b *Buffer) ReadString(s string) bool {
	if !b.PeekString(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		b.increment()
	}
	return true
}

// SkipWhitespace advances past spaces, tabs, carriage returns,
// newlines, and comments.
func (b *Buffer) SkipWhitespace() {
	for {
		switch b.Peek() {
		case ' ', '\t', '\r', '\n':
			b.increment()
			continue
		}

		if b.commentSkip != nil && b.commentSkip(b) {
			continue
		}
		return
	}
}

// SkipSpace advances past spaces, tabs, carriage returns, and comments,
// staying on the current line. When overflow is true it also crosses
// newlines into continuation lines, those indented at least 8 columns
// past the current block.
func (b *Buffer) SkipSpace(overflow bool) {
	for {
		if b.EndReached() {
			return
		}

		character := b.Peek()
		if character == ' ' || character == '\t' || character == '\r' ||
			(character == '\n' && overflow && b.lineBroken()) {
			b.increment()
			continue
		}

		if b.commentSkip != nil && b.commentSkip(b) {
			continue
		}
		return
	}
}

// SkipBlock advances past the remainder of the current indented block,
// stopping on the newline before the next line indented at or below the
// current line. Calling it again without moving is a no-op, so nested
// recovery paths can each resynchronize safely.
func (b *Buffer) SkipBlock() {
	reference := b.Indentation()

	for {
		for !b.EndReached() && b.Peek() != '\n' {
			b.increment()
		}
		if b.EndReached() {
			return
		}

		saved := b.position
		b.SkipWhitespace()
		ended := b.EndReached()
		next := b.Indentation()
		b.position = saved

		if ended || next <= reference {
			return
		}
		b.increment()
	}
}

// lineBroken reports whether the next line continues the current one,
// which requires an indentation at least 8 columns past the enclosing
// block's.
func (b *Buffer) lineBroken() bool {
	next := b.position.Line + 1
	if next > b.lineCount {
		return false
	}
	return b.lineIndentations[next-1] >= b.position.blockIndentation+8
}

// increment advances the cursor one character, maintaining the line,
// column, and block indentation fields. Tabs advance the column to the
// next 4-column stop. Entering a line that is not a continuation resets
// the block indentation to that line's.
func (b *Buffer) increment() {
	if b.position.Index >= b.length {
		return
	}

	character := b.text[b.position.Index]
	b.position.Index++

	switch character {
	case '\n':
		if b.position.Line < b.lineCount {
			entered := b.lineIndentations[b.position.Line]
			if entered < b.position.blockIndentation+8 {
				b.position.blockIndentation = entered
			}
		}
		b.position.Line++
		b.position.Column = 1
	case '\t':
		b.position.Column += 4 - (b.position.Column-1)%4
	case '\r':
	default:
		b.position.Column++
	}
}
