package ast

import (
	"errors"
	"testing"
)

func TestGrammar_String(t *testing.T) {
	grammar := &Grammar{
		Rules: []*Rule{
			{Name: "a", Terminal: true, Term: constant("x")},
			{
				Name: "b",
				Children: []*Rule{
					{Name: "c", Scope: []string{"b"}, Terminal: true, Term: constant("y")},
				},
			},
		},
	}

	want := "a: 'x'\nb...\n    c: 'y'\n\n"
	if got := grammar.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGrammar_Rule(t *testing.T) {
	grammar := &Grammar{
		Rules: []*Rule{
			{Name: "a", Terminal: true, Term: constant("x")},
			{
				Name: "b",
				Children: []*Rule{
					{Name: "c", Terminal: true, Term: constant("y")},
				},
			},
		},
	}

	if rule := grammar.Rule("b"); rule == nil || rule.Name != "b" {
		t.Errorf("Rule(b) = %v, want rule b", rule)
	}
	if rule := grammar.Rule("missing"); rule != nil {
		t.Errorf("Rule(missing) = %v, want nil", rule)
	}
	// Nested rules are not reachable by top-level lookup.
	if rule := grammar.Rule("c"); rule != nil {
		t.Errorf("Rule(c) = %v, want nil", rule)
	}
}

func TestGrammar_RuleCount(t *testing.T) {
	grammar := &Grammar{
		Rules: []*Rule{
			{Name: "a", Terminal: true, Term: constant("x")},
			{
				Name: "b",
				Children: []*Rule{
					{Name: "c", Terminal: true, Term: constant("y")},
					{
						Name: "d",
						Children: []*Rule{
							{Name: "e", Terminal: true, Term: constant("z")},
						},
					},
				},
			},
		},
	}

	if count := grammar.RuleCount(); count != 5 {
		t.Errorf("RuleCount() = %d, want 5", count)
	}
}

type countingVisitor struct {
	rules int
	terms int
	fail  string
}

func (v *countingVisitor) VisitRule(rule *Rule) error {
	if rule.Name == v.fail {
		return errors.New("visit failed")
	}
	v.rules++
	return nil
}

func (v *countingVisitor) VisitTerm(*Term) error {
	v.terms++
	return nil
}

func TestWalk(t *testing.T) {
	grammar := &Grammar{
		Rules: []*Rule{
			{
				Name: "root",
				Children: []*Rule{
					{
						Name:     "pair",
						Terminal: true,
						Term: &Term{
							Type:   TermSequence,
							Terms:  []*Term{constant("a"), reference("b")},
							Bounds: DefaultBounds(),
						},
					},
				},
			},
		},
	}

	visitor := &countingVisitor{}
	if err := Walk(grammar, visitor); err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if visitor.rules != 2 {
		t.Errorf("rules visited = %d, want 2", visitor.rules)
	}
	// The sequence node plus its two members.
	if visitor.terms != 3 {
		t.Errorf("terms visited = %d, want 3", visitor.terms)
	}
}

func TestWalk_PropagatesError(t *testing.T) {
	grammar := &Grammar{
		Rules: []*Rule{
			{Name: "a", Terminal: true, Term: constant("x")},
			{Name: "stop", Terminal: true, Term: constant("y")},
		},
	}

	err := Walk(grammar, &countingVisitor{fail: "stop"})
	if err == nil || err.Error() != "visit failed" {
		t.Errorf("Walk() error = %v, want visit failed", err)
	}
}
