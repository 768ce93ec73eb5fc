package validator

import (
	"fmt"

	"mercator-hq/ganymede/pkg/gdl/ast"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
)

// DuplicateValidator reports rules declared more than once within the
// same scope. The same name in different scopes is legal; the scope
// chain keeps the qualified names distinct.
type DuplicateValidator struct {
	errors *gdlErrors.ErrorList
	path   string
}

// NewDuplicateValidator creates a new duplicate-name validator.
func NewDuplicateValidator() *DuplicateValidator {
	return &DuplicateValidator{
		errors: gdlErrors.NewErrorList(),
	}
}

// Validate reports every redefinition in the grammar, in source order,
// located at the redefining declaration.
func (v *DuplicateValidator) Validate(grammar *ast.Grammar) error {
	v.errors = gdlErrors.NewErrorList()
	v.path = grammar.Path

	v.checkGroup(grammar.Rules)

	return v.errors.ToError()
}

// checkGroup flags each declaration of a name after its first within
// one sibling group, then descends into each extension's children.
func (v *DuplicateValidator) checkGroup(rules []*ast.Rule) {
	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seen[rule.Name] {
			v.errors.AddErrorWithSuggestion(
				gdlErrors.ErrorTypeValidation,
				fmt.Sprintf("redefinition of rule '%s'", rule.Name),
				locationOf(v.path, rule.Position),
				"rename or remove one of the declarations",
			)
		}
		seen[rule.Name] = true

		if !rule.Terminal {
			v.checkGroup(rule.Children)
		}
	}
}
