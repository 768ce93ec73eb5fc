// Package errors provides rich error types for grammar parsing and
// validation.
//
// The error types carry source locations and optional fix suggestions
// so tooling can point users at the exact place a grammar definition
// went wrong.
//
// # Error Types
//
// ErrorTypeSyntax: malformed grammar text (bad indentation, unterminated
// constants, misplaced operators)
//
// ErrorTypeValidation: structural problems in an otherwise parseable
// tree (duplicate rule names)
//
// ErrorTypeIO: file access problems while loading grammar definitions
//
// # Diagnostics vs. logic errors
//
// Diagnostics describe problems in the user's grammar; they accumulate
// in an ErrorList so one parse surfaces every independent problem:
//
//	errs := errors.NewErrorList()
//	errs.AddError(errors.ErrorTypeSyntax, "expected a term", location)
//	if errs.HasErrors() {
//	    return errs.ToError()
//	}
//
// LogicError is different: it reports that the parser itself was driven
// into a state its contract forbids. It aborts the whole parse instead
// of joining the diagnostic list, since it signals a defect in calling
// discipline rather than a malformed grammar.
package errors
