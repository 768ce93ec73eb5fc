package parser

import (
	"strings"

	"mercator-hq/ganymede/pkg/gdl/ast"
)

// parseRule parses one rule declaration at the given nesting depth and
// leaves the cursor on the declaration's final line boundary. On
// failure it returns nil with diagnostics already appended; recovery is
// the caller's job.
func (r *run) parseRule(parentCount int) *ast.Rule {
	rule := &ast.Rule{Position: r.buffer.Position()}

	if parentCount > r.maxDepth {
		r.syntaxError("maximum rule nesting depth exceeded")
		return nil
	}

	// Indentation is checked before anything is consumed, so these two
	// failures leave the cursor where it was for the caller's recovery.
	indentation := r.buffer.Indentation()
	if indentation%4 != 0 {
		r.syntaxError("invalid indentation level")
		return nil
	}
	if indentation != parentCount*4 {
		r.syntaxError("unexpected indentation increase")
		return nil
	}

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
		r.logicPanic("no rule found")
	}
	rule.Name = name.String()

	r.buffer.SkipSpace(false)

	switch {
	case r.buffer.ReadByte(':'):
		rule.Terminal = true

		r.buffer.SkipSpace(true)
		term := r.parseTerm(true)
		if term == nil {
			r.buffer.SkipBlock()
			return nil
		}
		rule.Term = term

	case r.buffer.ReadString("..."):
		r.buffer.SkipSpace(true)

		failed := false
		if !r.buffer.EndReached() && !r.buffer.PeekByte('\n') {
			r.syntaxError("trailing characters after '...'")
			failed = true
		}

		var children []*ast.Rule
		for {
			delta := r.buffer.IndentationDelta(rule.Position.Line)
			if delta <= 0 {
				break
			}
			if delta != 4 {
				r.buffer.SkipWhitespace()
				r.syntaxError("unexpected indentation increase")
				r.buffer.SkipBlock()
				return nil
			}
			r.buffer.SkipWhitespace()

			child := r.parseRule(parentCount + 1)
			if child == nil {
				r.buffer.SkipBlock()
				failed = true
			} else if !r.buffer.EndReached() && !r.buffer.PeekByte('\n') {
				r.logicPanic("incomplete rule parse")
			} else {
				child.AddParentScope(rule.Name)
				children = append(children, child)
			}
		}

		if failed {
			return nil
		}
		if len(children) == 0 {
			r.buffer.SetPosition(rule.Position)
			r.syntaxError("no children found for name-extended rule '" + rule.Name + "'")
			return nil
		}
		rule.Children = children

	default:
		r.syntaxError("expected ':' or '...'")
		r.buffer.SkipBlock()
		return nil
	}

	return rule
}
