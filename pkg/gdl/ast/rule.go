package ast

import (
	"strings"

	"mercator-hq/ganymede/pkg/gdl/text"
)

// Rule binds a name to grammar content: a terminal rule stores a term
// expression, a name-extended rule stores a block of child rules.
// Terminal selects which of Term and Children is meaningful.
type Rule struct {
	Name     string
	Position text.Position

	// Scope lists the names of the enclosing name-extended rules,
	// outermost first, excluding the rule's own name. It is populated
	// incrementally while ancestors accept their children, so it is
	// complete only once the whole tree has been parsed.
	Scope []string

	Terminal bool
	Term     *Term
	Children []*Rule
}

// AddParentScope records parent as the nearest enclosing rule name for
// this rule and every rule beneath it. Each ancestor calls it once per
// tree edge, nearest ancestor first, and inserting at the front keeps
// the scope ordered outermost first.
func (r *Rule) AddParentScope(parent string) {
	r.Scope = append([]string{parent}, r.Scope...)
	if !r.Terminal {
		for _, child := range r.Children {
			child.AddParentScope(parent)
		}
	}
}

// Depth returns the rule's nesting depth, 0 for a top-level rule.
// Meaningful only once the tree is fully parsed.
func (r *Rule) Depth() int {
	return len(r.Scope)
}

// QualifiedName returns the rule's name prefixed by its scope chain,
// joined with dots.
func (r *Rule) QualifiedName() string {
	if len(r.Scope) == 0 {
		return r.Name
	}
	return strings.Join(r.Scope, ".") + "." + r.Name
}

// String renders the rule as grammar source, indented by its depth.
func (r *Rule) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r *Rule) write(sb *strings.Builder) {
	for range r.Scope {
		sb.WriteString("    ")
	}

	if r.Terminal {
		sb.WriteString(r.Name)
		sb.WriteString(": ")
		r.Term.write(sb)
		return
	}

	sb.WriteString(r.Name)
	sb.WriteString("...\n")
	for _, child := range r.Children {
		child.write(sb)
		if child.Terminal {
			sb.WriteByte('\n')
		}
	}
}
