package ast

import (
	"strconv"
	"strings"

	"mercator-hq/ganymede/pkg/gdl/text"
)

// TermType identifies the kind of a term expression node.
type TermType string

const (
	TermConstant  TermType = "constant"  // quoted literal text
	TermRange     TermType = "range"     // inclusive single-character range
	TermReference TermType = "reference" // reference to a named rule
	TermChoice    TermType = "choice"    // pipe-separated options
	TermSequence  TermType = "sequence"  // space-separated elements
)

// Predicate is a lookahead marker on a term. A predicated term is
// matched without consuming input.
type Predicate string

const (
	PredicateNone Predicate = ""
	PredicateAnd  Predicate = "and" // positive lookahead, written '&'
	PredicateNot  Predicate = "not" // negative lookahead, written '!'
)

// Unbounded marks a missing lower or upper instance bound.
const Unbounded = -1

// Bounds restricts how many consecutive times a term may match.
// The shorthand suffixes '?', '*', and '+' map to (0,1), (0,Unbounded),
// and (1,Unbounded); explicit bounds are written '{n}', '{n:}', '{:n}',
// or '{n:m}'.
type Bounds struct {
	Lower int
	Upper int
}

// DefaultBounds returns the implicit exactly-once bounds.
func DefaultBounds() Bounds {
	return Bounds{Lower: 1, Upper: 1}
}

// IsDefault reports whether the bounds are the implicit exactly-once
// pair.
func (b Bounds) IsDefault() bool {
	return b.Lower == 1 && b.Upper == 1
}

// String renders the bounds as a grammar source suffix, preferring the
// shorthand forms. Default bounds render as the empty string.
func (b Bounds) String() string {
	switch {
	case b.IsDefault():
		return ""
	case b.Lower == 0 && b.Upper == 1:
		return "?"
	case b.Lower == 0 && b.Upper == Unbounded:
		return "*"
	case b.Lower == 1 && b.Upper == Unbounded:
		return "+"
	case b.Lower == b.Upper:
		return "{" + strconv.Itoa(b.Lower) + "}"
	case b.Lower == Unbounded:
		return "{:" + strconv.Itoa(b.Upper) + "}"
	case b.Upper == Unbounded:
		return "{" + strconv.Itoa(b.Lower) + ":}"
	default:
		return "{" + strconv.Itoa(b.Lower) + " : " + strconv.Itoa(b.Upper) + "}"
	}
}

// Term is one node of a rule's term expression. Exactly one of the
// value fields is meaningful, selected by Type: Value for constants,
// Range for ranges, Reference for references, and Terms for choices
// and sequences.
type Term struct {
	Type      TermType
	Position  text.Position
	Predicate Predicate
	Silenced  bool
	Bounds    Bounds

	Value     string  // constant: the unescaped literal text
	Range     [2]byte // range: inclusive endpoints
	Reference string  // reference: the target rule name
	Terms     []*Term // choice, sequence: the member terms
}

// String renders the term as grammar source.
func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder) {
	switch t.Predicate {
	case PredicateAnd:
		sb.WriteByte('&')
	case PredicateNot:
		sb.WriteByte('!')
	default:
		if t.Silenced {
			sb.WriteByte('$')
		}
	}

	switch t.Type {
	case TermConstant:
		sb.WriteByte('\'')
		writeEscaped(sb, t.Value)
		sb.WriteByte('\'')

	case TermRange:
		sb.WriteString("['")
		writeEscapedByte(sb, t.Range[0])
		sb.WriteString("' - '")
		writeEscapedByte(sb, t.Range[1])
		sb.WriteString("']")

	case TermReference:
		sb.WriteString(t.Reference)

	case TermChoice, TermSequence:
		enclosed := !t.Bounds.IsDefault()
		if enclosed {
			sb.WriteByte('(')
		}

		for index, member := range t.Terms {
			if index > 0 {
				if t.Type == TermChoice {
					sb.WriteString(" | ")
				} else {
					sb.WriteByte(' ')
				}
			}

			// Sequences inside a choice need grouping to survive a
			// round trip, since choice binds tighter.
			if t.Type == TermChoice && member.Type == TermSequence {
				sb.WriteByte('(')
				member.write(sb)
				sb.WriteByte(')')
			} else {
				member.write(sb)
			}
		}

		if enclosed {
			sb.WriteByte(')')
		}
	}

	sb.WriteString(t.Bounds.String())
}

func writeEscaped(sb *strings.Builder, value string) {
	for i := 0; i < len(value); i++ {
		writeEscapedByte(sb, value[i])
	}
}

func writeEscapedByte(sb *strings.Builder, character byte) {
	if sequence, ok := escapeSequence(character); ok {
		sb.WriteString(sequence)
	} else {
		sb.WriteByte(character)
	}
}

// escapeSequence maps characters that need escaping in grammar source
// back to their escape sequences.
func escapeSequence(character byte) (string, bool) {
	switch character {
	case '\n':
		return `\n`, true
	case '\r':
		return `\r`, true
	case '\b':
		return `\b`, true
	case '\t':
		return `\t`, true
	case '\\':
		return `\\`, true
	case '"':
		return `\"`, true
	case '\'':
		return `\'`, true
	}
	return "", false
}
