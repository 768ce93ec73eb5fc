package ast

// Visitor provides an interface for traversing a grammar tree.
// Implement it to perform operations on rules and terms (analysis,
// statistics, reporting).
type Visitor interface {
	VisitRule(*Rule) error
	VisitTerm(*Term) error
}

// Walk traverses the grammar depth-first and calls the visitor for
// each rule and term. It returns the first error encountered, or nil
// if traversal completes.
func Walk(grammar *Grammar, visitor Visitor) error {
	for _, rule := range grammar.Rules {
		if err := walkRule(rule, visitor); err != nil {
			return err
		}
	}
	return nil
}

func walkRule(rule *Rule, visitor Visitor) error {
	if err := visitor.VisitRule(rule); err != nil {
		return err
	}

	if rule.Terminal {
		return walkTerm(rule.Term, visitor)
	}
	for _, child := range rule.Children {
		if err := walkRule(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

func walkTerm(term *Term, visitor Visitor) error {
	if err := visitor.VisitTerm(term); err != nil {
		return err
	}

	for _, member := range term.Terms {
		if err := walkTerm(member, visitor); err != nil {
			return err
		}
	}
	return nil
}
