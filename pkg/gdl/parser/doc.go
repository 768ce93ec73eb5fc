// Package parser provides recursive descent parsing and AST
// construction for GDL grammar definitions.
//
// The parser reads GDL grammar files, validates syntax, and constructs
// the rule tree consumed by the validator and the rest of the toolchain.
//
// # Basic Usage
//
// Parse a grammar file:
//
//	parser := parser.NewParser()
//	grammar, err := parser.Parse("grammars/expression.gdl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Rules:", grammar.RuleCount())
//
// Parse from memory:
//
//	source := []byte(`
//	digit: ['0' - '9']
//	number: digit+ ('.' digit+)?
//	`)
//
//	grammar, err := parser.ParseBytes(source, "memory://grammar")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Configure parser limits:
//
//	parser := parser.NewParser().
//	    WithMaxFileSize(5 * 1024 * 1024). // 5MB limit
//	    WithMaxDepth(32)                  // Max rule nesting depth
//
// # Error Handling
//
// The parser returns rich errors with location and context:
//
//	grammar, err := parser.Parse("grammar.gdl")
//	if err != nil {
//	    if errList, ok := err.(*errors.ErrorList); ok {
//	        fmt.Printf("Found %d errors:\n", errList.Count())
//	        for _, e := range errList.Errors {
//	            fmt.Println(e.Error())
//	        }
//	    } else {
//	        fmt.Println(err)
//	    }
//	}
//
// # Error Recovery
//
// Parsing does not stop at the first malformed declaration. When a rule
// fails, the parser skips the remainder of its indentation block and
// resumes at the next declaration, so one pass reports every
// independent problem in the file. Diagnostics appear in source order.
//
// A returned *errors.LogicError is different: it means the parser
// violated its own invariants (a dispatch taken without its guard
// character, a rule left mid-line). Those abort the parse immediately
// and indicate a parser defect, not a problem with the input.
//
// # Grammar Shape
//
// Two declaration forms drive the descent:
//
// 1. Terminal rules: name ':' followed by a term expression on one line
// (continuation lines indented 8 columns deeper join the expression)
//
// 2. Name-extended rules: name '...' followed by child declarations
// indented exactly 4 columns deeper
//
// Children accumulate their ancestor chain in Scope, outermost first,
// so every rule knows its fully qualified name after parsing.
package parser
