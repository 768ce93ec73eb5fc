// Package validator provides validation passes for parsed GDL
// grammars.
//
// Two passes run over the rule tree:
//
//   - Structural: the terminal flag must agree with the node's payload,
//     names and references must use the rule-name alphabet, composite
//     terms must have members, and bounds must be coherent.
//
//   - Duplicates: a rule name declared twice within the same scope is a
//     redefinition, reported at the second declaration.
//
// The parser only produces trees that pass both, so validation matters
// most for grammars assembled programmatically and for catching
// redefinitions, which are legal syntax.
//
// # Usage
//
//	validator := validator.NewValidator()
//	if err := validator.Validate(grammar); err != nil {
//	    if list, ok := err.(*errors.ErrorList); ok {
//	        for _, e := range list.Errors {
//	            fmt.Println(e.Error())
//	        }
//	    }
//	}
package validator
