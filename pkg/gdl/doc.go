// Package gdl implements the GDL grammar definition language.
//
// GDL describes grammars as indentation-structured rule declarations.
// A rule either binds a name to a term expression or extends the
// naming scope with a group of nested rules:
//
//	number...
//	    digit: ['0' - '9']
//	    integer: '-'? digit+
//	    decimal: integer '.' digit+
//
// This package is the umbrella API; the real work happens in the
// subpackages:
//
//   - text: the line-indexed read cursor over grammar source
//   - ast: the rule and term tree, scope handling, and the printer
//   - parser: recursive descent parsing with multi-error recovery
//   - validator: structural and duplicate-name validation passes
//   - errors: diagnostics, error lists, and suggestion rendering
//
// # Quick Start
//
// Parse and validate a grammar file:
//
//	grammar, err := gdl.ParseAndValidate("expression.gdl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Rules:", grammar.RuleCount())
//
// Parse grammar text from memory:
//
//	grammar, err := gdl.ParseAndValidateBytes(source, "memory://grammar")
//
// # Error Handling
//
// Malformed input produces an *errors.ErrorList carrying one diagnostic
// per independent problem, each with a location, the offending source
// line, and sometimes a suggested fix. Parsing continues past failed
// declarations, so a single run reports everything it can.
//
// An *errors.LogicError signals a defect in the parser itself, never a
// problem with the input, and aborts the parse.
//
// # Thread Safety
//
// Parsing is purely sequential; one parse owns its cursor and error
// sink. Distinct parses are independent, so concurrent use means one
// Parser call per goroutine. Parsed trees are not modified by this
// package after they are returned.
package gdl
