package validator

import (
	"fmt"

	"mercator-hq/ganymede/pkg/gdl/ast"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
)

// StructuralValidator checks the shape of a rule tree: the terminal
// flag must agree with the payload, names must be well formed, and
// term nodes must be internally consistent. The parser never produces
// a broken tree; this pass protects consumers of programmatically
// built grammars.
type StructuralValidator struct {
	errors *gdlErrors.ErrorList
	path   string
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{
		errors: gdlErrors.NewErrorList(),
	}
}

// Validate performs structural validation on a grammar.
// It returns an ErrorList containing all structural problems found.
func (v *StructuralValidator) Validate(grammar *ast.Grammar) error {
	v.errors = gdlErrors.NewErrorList()
	v.path = grammar.Path

	for _, rule := range grammar.Rules {
		v.validateRule(rule)
	}

	return v.errors.ToError()
}

func (v *StructuralValidator) validateRule(rule *ast.Rule) {
	where := locationOf(v.path, rule.Position)

	if rule.Name == "" {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			"rule has no name",
			where,
		)
		return
	}
	if !isRuleName(rule.Name) {
		v.errors.AddErrorWithSuggestion(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("invalid rule name '%s'", rule.Name),
			where,
			"rule names use lowercase letters and underscores only",
		)
	}

	if rule.Terminal {
		if rule.Term == nil {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("terminal rule '%s' has no term", rule.Name),
				where,
			)
		} else {
			v.validateTerm(rule.Term, rule.Name)
		}
		if len(rule.Children) > 0 {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("terminal rule '%s' has children", rule.Name),
				where,
			)
		}
		return
	}

	if rule.Term != nil {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("name-extended rule '%s' has a term", rule.Name),
			where,
		)
	}
	if len(rule.Children) == 0 {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("name-extended rule '%s' has no children", rule.Name),
			where,
		)
		return
	}
	for _, child := range rule.Children {
		v.validateRule(child)
	}
}

func (v *StructuralValidator) validateTerm(term *ast.Term, ruleName string) {
	where := locationOf(v.path, term.Position)

	switch term.Type {
	case ast.TermConstant:
		if term.Value == "" {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("empty constant term in rule '%s'", ruleName),
				where,
			)
		}

	case ast.TermRange:
		if term.Range[0] >= term.Range[1] {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("inverted range term in rule '%s'", ruleName),
				where,
			)
		}

	case ast.TermReference:
		if term.Reference == "" {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("empty reference term in rule '%s'", ruleName),
				where,
			)
		} else if !isRuleName(term.Reference) {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("invalid reference '%s' in rule '%s'", term.Reference, ruleName),
				where,
			)
		}

	case ast.TermChoice, ast.TermSequence:
		if len(term.Terms) == 0 {
			v.errors.AddError(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("empty composite term in rule '%s'", ruleName),
				where,
			)
		}
		for _, member := range term.Terms {
			v.validateTerm(member, ruleName)
		}

	default:
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("unknown term type '%s' in rule '%s'", term.Type, ruleName),
			where,
		)
	}

	v.validateBounds(term.Bounds, ruleName, where)
}

func (v *StructuralValidator) validateBounds(bounds ast.Bounds, ruleName string, where ast.Location) {
	if bounds.Lower < ast.Unbounded || bounds.Upper < ast.Unbounded {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("invalid term bounds in rule '%s'", ruleName),
			where,
		)
		return
	}
	if bounds.Lower >= 0 && bounds.Upper >= 0 && bounds.Upper < bounds.Lower {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("inverted term bounds in rule '%s'", ruleName),
			where,
		)
	}
	if bounds.Lower == 0 && bounds.Upper == 0 {
		v.errors.AddError(
			gdlErrors.ErrorTypeValidation,
			fmt.Sprintf("zero term bounds in rule '%s'", ruleName),
			where,
		)
	}
}

// isRuleName reports whether a name uses the rule-name alphabet.
func isRuleName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && c != '_' {
			return false
		}
	}
	return true
}
