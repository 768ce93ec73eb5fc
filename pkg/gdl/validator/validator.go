package validator

import (
	"mercator-hq/ganymede/pkg/gdl/ast"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
	"mercator-hq/ganymede/pkg/gdl/text"
)

// Validator orchestrates the validation passes that run over a parsed
// grammar. Every pass accumulates diagnostics instead of stopping at
// the first problem.
type Validator struct {
	structural *StructuralValidator
	duplicates *DuplicateValidator
}

// NewValidator creates a new validator with all passes enabled.
func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		duplicates: NewDuplicateValidator(),
	}
}

// Validate runs all validation passes on a grammar and returns their
// accumulated diagnostics together.
func (v *Validator) Validate(grammar *ast.Grammar) error {
	errorList := gdlErrors.NewErrorList()

	structuralSound := true
	if err := v.structural.Validate(grammar); err != nil {
		if list, ok := err.(*gdlErrors.ErrorList); ok {
			errorList.Errors = append(errorList.Errors, list.Errors...)
		}
		structuralSound = false
	}

	// Duplicate detection assumes well-formed nodes, so a broken tree
	// reports only its structural problems.
	if structuralSound {
		if err := v.duplicates.Validate(grammar); err != nil {
			if list, ok := err.(*gdlErrors.ErrorList); ok {
				errorList.Errors = append(errorList.Errors, list.Errors...)
			}
		}
	}

	return errorList.ToError()
}

// ValidateStructure runs only the structural pass.
func (v *Validator) ValidateStructure(grammar *ast.Grammar) error {
	return v.structural.Validate(grammar)
}

// ValidateDuplicates runs only the duplicate-name pass.
func (v *Validator) ValidateDuplicates(grammar *ast.Grammar) error {
	return v.duplicates.Validate(grammar)
}

// locationOf converts a node position within the given grammar file
// into a diagnostic location.
func locationOf(path string, position text.Position) ast.Location {
	return ast.Location{
		File:   path,
		Line:   position.Line,
		Column: position.Column,
	}
}
