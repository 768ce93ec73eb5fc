package ast

import "strings"

// Grammar is the root of a parsed grammar definition.
type Grammar struct {
	Path  string // source path, empty for in-memory parses
	Rules []*Rule
}

// String renders the grammar as source text, one top-level block per
// rule.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, rule := range g.Rules {
		rule.write(&sb)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Rule returns the top-level rule with the given name, or nil when the
// grammar declares none. Nested rules are addressed through their
// parent's Children.
func (g *Grammar) Rule(name string) *Rule {
	for _, rule := range g.Rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}

// RuleCount returns the number of rules in the grammar, nested rules
// included.
func (g *Grammar) RuleCount() int {
	count := 0
	for _, rule := range g.Rules {
		count += countRules(rule)
	}
	return count
}

func countRules(rule *Rule) int {
	count := 1
	if !rule.Terminal {
		for _, child := range rule.Children {
			count += countRules(child)
		}
	}
	return count
}
