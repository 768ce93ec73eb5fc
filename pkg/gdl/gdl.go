package gdl

import (
	"mercator-hq/ganymede/pkg/gdl/ast"
	"mercator-hq/ganymede/pkg/gdl/parser"
	"mercator-hq/ganymede/pkg/gdl/validator"
)

// ParseAndValidate is a convenience function that parses and validates
// a grammar file. It returns the rule tree if successful, or an error
// if parsing or validation fails.
func ParseAndValidate(path string) (*ast.Grammar, error) {
	p := parser.NewParser()
	grammar, err := p.Parse(path)
	if err != nil {
		return nil, err
	}

	v := validator.NewValidator()
	if err := v.Validate(grammar); err != nil {
		return nil, err
	}

	return grammar, nil
}

// ParseAndValidateBytes is a convenience function that parses and
// validates grammar text from bytes.
func ParseAndValidateBytes(data []byte, sourcePath string) (*ast.Grammar, error) {
	p := parser.NewParser()
	grammar, err := p.ParseBytes(data, sourcePath)
	if err != nil {
		return nil, err
	}

	v := validator.NewValidator()
	if err := v.Validate(grammar); err != nil {
		return nil, err
	}

	return grammar, nil
}

// Parse parses a grammar file without validation.
// Use this to inspect the rule tree before validation.
func Parse(path string) (*ast.Grammar, error) {
	p := parser.NewParser()
	return p.Parse(path)
}

// Validate validates a parsed grammar.
func Validate(grammar *ast.Grammar) error {
	v := validator.NewValidator()
	return v.Validate(grammar)
}
