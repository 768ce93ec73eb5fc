// Package ast provides the syntax tree for parsed grammar definitions.
//
// A grammar definition binds rule names to term expressions, either
// directly or through nested blocks of child rules. The tree mirrors
// that structure:
//
//	Grammar
//	└── Rules ([]*Rule)
//	    ├── terminal: Term (*Term)
//	    │   ├── Constant ('text')
//	    │   ├── Range (['a' - 'z'])
//	    │   ├── Reference (name)
//	    │   ├── Choice (a | b)
//	    │   └── Sequence (a b)
//	    └── name-extended: Children ([]*Rule), recursively
//
// Every node records the source Position it started at, so validators
// and reporting layers can point back into the file.
//
// # Scope
//
// A rule's Scope lists the names of its enclosing name-extended rules,
// outermost first. The parser populates it incrementally while
// ancestors accept their children, so it is only complete once the
// whole tree has been parsed. See Rule.AddParentScope.
//
// # Printing
//
// Grammar, Rule, and Term implement fmt.Stringer, rendering the tree
// back into grammar source. The output is normalized (canonical
// spacing, re-escaped constants) rather than a byte-for-byte copy of
// the input.
//
// # Immutability
//
// Outside of scope propagation during parsing, nodes should be treated
// as immutable: the parser builds the tree once and later passes
// inspect it without modification.
package ast
