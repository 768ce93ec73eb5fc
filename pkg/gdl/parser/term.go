package parser

import (
	"strconv"
	"strings"

	"mercator-hq/ganymede/pkg/gdl/ast"
)

// parseTerm parses a single term. Root terms delegate straight to the
// sequence level; everything below it is a unary term, optionally
// predicated, silenced, enclosed and bounded.
//
// Modifiers parsed here always overwrite whatever the inner term
// carried, so an enclosure's own markers do not survive re-wrapping:
// ('x'?)+ is bounded {1:}, not {0:1}.
func (r *run) parseTerm(root bool) *ast.Term {
	if root {
		return r.parseSequence()
	}

	position := r.buffer.Position()

	predicate := ast.PredicateNone
	if r.buffer.ReadByte('&') {
		predicate = ast.PredicateAnd
	} else if r.buffer.ReadByte('!') {
		predicate = ast.PredicateNot
	}

	r.buffer.SkipSpace(false)
	silenced := false
	if r.buffer.ReadByte('$') {
		r.buffer.SkipSpace(false)
		if r.buffer.PeekByte('&') || r.buffer.PeekByte('|') || predicate != ast.PredicateNone {
			r.syntaxErrorAt("unnecessarily silenced and predicated term", position)
			return nil
		}
		silenced = true
	}

	var term *ast.Term
	r.buffer.SkipSpace(false)
	enclosed := r.buffer.ReadByte('(')
	if enclosed {
		term = r.parseSequence()
	} else {
		switch character := r.buffer.Peek(); {
		case character == '\'':
			term = r.parseConstant()
		case character == '[':
			term = r.parseRange()
		case (character >= 'a' && character <= 'z') || character == '_':
			term = r.parseReference()
		default:
			r.syntaxError("expected a term")
			return nil
		}
	}
	if term == nil {
		return nil
	}

	r.buffer.SkipSpace(false)
	if enclosed && !r.buffer.ReadByte(')') {
		r.syntaxError("expected ')'")
		return nil
	}

	r.buffer.SkipSpace(false)
	bounds, ok := r.parseBounds()
	if !ok {
		return nil
	}

	term.Predicate = predicate
	term.Silenced = silenced
	term.Bounds = bounds
	return term
}

// parseSequence parses terms separated by spaces until the expression
// ends at a line break, a closing parenthesis or the end of input.
// Single-element sequences collapse to the element itself.
func (r *run) parseSequence() *ast.Term {
	position := r.buffer.Position()

	var elements []*ast.Term
	for {
		element := r.parseChoice()
		if element == nil {
			return nil
		}
		elements = append(elements, element)

		r.buffer.SkipSpace(true)
		if r.buffer.EndReached() || r.buffer.PeekByte('\n') || r.buffer.PeekByte(')') {
			break
		}
	}

	if len(elements) == 1 {
		return elements[0]
	}
	return &ast.Term{
		Type:     ast.TermSequence,
		Position: position,
		Terms:    elements,
		Bounds:   ast.DefaultBounds(),
	}
}

// parseChoice parses terms separated by '|'. It binds tighter than the
// sequence level, so a b | c d groups as a (b | c) d. Single-option
// choices collapse to the option itself.
func (r *run) parseChoice() *ast.Term {
	position := r.buffer.Position()

	var options []*ast.Term
	for {
		option := r.parseTerm(false)
		if option == nil {
			return nil
		}
		options = append(options, option)

		r.buffer.SkipSpace(true)
		if !r.buffer.ReadByte('|') {
			break
		}

		r.buffer.SkipSpace(true)
		switch {
		case r.buffer.EndReached():
			r.syntaxError("unexpected end-of-file after choice operator")
			return nil
		case r.buffer.PeekByte('\n'):
			r.syntaxError("unexpected end-of-line after choice operator")
			return nil
		case r.buffer.PeekByte(')'):
			r.syntaxError("unexpected ')' after choice operator")
			return nil
		}
	}

	if len(options) == 1 {
		return options[0]
	}
	return &ast.Term{
		Type:     ast.TermChoice,
		Position: position,
		Terms:    options,
		Bounds:   ast.DefaultBounds(),
	}
}

// parseConstant parses a single-quoted literal.
func (r *run) parseConstant() *ast.Term {
	position := r.buffer.Position()

	if !r.buffer.ReadByte('\'') {
		r.logicPanic("no constant found")
	}

	var value strings.Builder
	for {
		character := r.buffer.Peek()
		if r.buffer.ReadByte('\'') {
			break
		}

		if character == '\t' || character == '\r' {
			r.syntaxError("invalid character in constant")
			return nil
		}
		if r.buffer.EndReached() {
			r.syntaxError("unexpected end-of-file in constant")
			return nil
		}
		if character == '\n' {
			r.syntaxError("unexpected end-of-line in constant")
			return nil
		}

		if character == '\\' {
			code, ok := r.parseEscape()
			if !ok {
				r.syntaxError("invalid escape character in constant")
				return nil
			}
			value.WriteByte(code)
			continue
		}

		value.WriteByte(r.buffer.Read())
	}

	if value.Len() == 0 {
		r.syntaxErrorAt("empty constant", position)
		return nil
	}

	return &ast.Term{
		Type:     ast.TermConstant,
		Position: position,
		Value:    value.String(),
		Bounds:   ast.DefaultBounds(),
	}
}

// parseRange parses a character range of the form ['a' - 'z']. Both
// endpoints accept printable escape codes; the start must order
// strictly below the end.
func (r *run) parseRange() *ast.Term {
	position := r.buffer.Position()

	if !r.buffer.ReadByte('[') {
		r.logicPanic("no range found")
	}

	r.buffer.SkipSpace(false)
	start, ok := r.parseRangeEndpoint()
	if !ok {
		return nil
	}

	r.buffer.SkipSpace(false)
	if !r.buffer.ReadByte('-') {
		r.syntaxError("expected '-'")
		return nil
	}

	r.buffer.SkipSpace(false)
	end, ok := r.parseRangeEndpoint()
	if !ok {
		return nil
	}

	r.buffer.SkipSpace(false)
	if !r.buffer.ReadByte(']') {
		r.syntaxError("expected ']'")
		return nil
	}

	if start >= end {
		r.syntaxErrorAt("illogical range values", position)
		return nil
	}

	return &ast.Term{
		Type:     ast.TermRange,
		Position: position,
		Range:    [2]byte{start, end},
		Bounds:   ast.DefaultBounds(),
	}
}

// parseRangeEndpoint parses one quoted range endpoint, escaped or raw.
func (r *run) parseRangeEndpoint() (byte, bool) {
	if !r.buffer.ReadByte('\'') {
		r.syntaxError("expected '\\''")
		return 0, false
	}

	var value byte
	if r.buffer.PeekByte('\\') {
		code, ok := r.parseEscape()
		if !ok || code < ' ' || code > '~' {
			r.syntaxError("invalid escape character")
			return 0, false
		}
		value = code
	} else {
		value = r.buffer.Read()
	}

	if !r.buffer.ReadByte('\'') {
		r.syntaxError("expected '\\''")
		return 0, false
	}
	return value, true
}

// parseReference parses a rule name reference.
func (r *run) parseReference() *ast.Term {
	position := r.buffer.Position()

	var name strings.Builder
	for {
		character := r.buffer.Peek()
		if (character >= 'a' && character <= 'z') || character == '_' {
			name.WriteByte(r.buffer.Read())
		} else {
			break
		}
	}
	if name.Len() == 0 {
		r.logicPanic("no reference found")
	}

	return &ast.Term{
		Type:      ast.TermReference,
		Position:  position,
		Reference: name.String(),
		Bounds:    ast.DefaultBounds(),
	}
}

// parseBounds parses an instance bound suffix. Absence of any bound
// marker yields the default single-instance bounds; malformed bounds
// report false after appending a diagnostic.
func (r *run) parseBounds() (ast.Bounds, bool) {
	position := r.buffer.Position()

	switch {
	case r.buffer.ReadByte('?'):
		return ast.Bounds{Lower: 0, Upper: 1}, true
	case r.buffer.ReadByte('*'):
		return ast.Bounds{Lower: 0, Upper: ast.Unbounded}, true
	case r.buffer.ReadByte('+'):
		return ast.Bounds{Lower: 1, Upper: ast.Unbounded}, true
	case !r.buffer.ReadByte('{'):
		return ast.DefaultBounds(), true
	}

	r.buffer.SkipSpace(false)
	start, hasStart := 0, false
	if character := r.buffer.Peek(); character >= '0' && character <= '9' {
		value, ok := r.parseInteger()
		if !ok {
			r.syntaxError("invalid instance bound start value")
			return ast.Bounds{}, false
		}
		start, hasStart = value, true
	}

	r.buffer.SkipSpace(false)
	colon := r.buffer.ReadByte(':')

	r.buffer.SkipSpace(false)
	end, hasEnd := 0, false
	if character := r.buffer.Peek(); character >= '0' && character <= '9' {
		value, ok := r.parseInteger()
		if !ok {
			r.syntaxError("invalid instance bound end value")
			return ast.Bounds{}, false
		}
		end, hasEnd = value, true
	}

	r.buffer.SkipSpace(false)
	if !r.buffer.ReadByte('}') {
		r.syntaxError("expected '}' at end of instance bound")
		return ast.Bounds{}, false
	}

	switch {
	case hasStart && !hasEnd && !colon:
		if start == 0 {
			r.syntaxErrorAt("zero-valued instance bound", position)
			return ast.Bounds{}, false
		}
		return ast.Bounds{Lower: start, Upper: start}, true

	case hasStart && !hasEnd && colon:
		return ast.Bounds{Lower: start, Upper: ast.Unbounded}, true

	case !hasStart && hasEnd && colon:
		if end == 0 {
			r.syntaxErrorAt("up-to-zero instance bound", position)
			return ast.Bounds{}, false
		}
		return ast.Bounds{Lower: ast.Unbounded, Upper: end}, true

	case hasStart && hasEnd && colon:
		if end < start {
			r.syntaxErrorAt("invalid instance bound", position)
			return ast.Bounds{}, false
		}
		if start == 0 && end == 0 {
			r.syntaxErrorAt("zero-instance bound", position)
			return ast.Bounds{}, false
		}
		return ast.Bounds{Lower: start, Upper: end}, true

	default:
		r.syntaxErrorAt("malformed instance bounds", position)
		return ast.Bounds{}, false
	}
}

// parseInteger consumes a run of digits. Values too large to represent
// report false.
func (r *run) parseInteger() (int, bool) {
	var digits strings.Builder
	for {
		character := r.buffer.Peek()
		if character >= '0' && character <= '9' {
			digits.WriteByte(r.buffer.Read())
		} else {
			break
		}
	}
	if digits.Len() == 0 {
		r.logicPanic("no integer found")
	}

	value, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseEscape consumes a backslash escape code, reporting false for
// codes outside the supported set.
func (r *run) parseEscape() (byte, bool) {
	if !r.buffer.ReadByte('\\') {
		r.logicPanic("no escape code found")
	}

	switch r.buffer.Read() {
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'b':
		return '\b', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}
