// Package grammar checks GDL files and tracks their state over time.
//
// The Manager is the entry point. It wires the file loader, the parser,
// and the validator together with the optional parse cache and metrics
// collector, and keeps a registry of the last known state of every
// checked file:
//
//	m := grammar.NewManager(nil, parseCache, collector, logger)
//	result := m.Check(ctx, "grammars/expression.gdl")
//	switch result.Status {
//	case grammar.StatusPassed:
//	    fmt.Println("ok:", result.RuleCount, "rules")
//	case grammar.StatusFailed:
//	    for _, diag := range result.Diagnostics {
//	        fmt.Println(diag.Detail())
//	    }
//	}
//
// Check never returns an error: unreadable files surface as a result
// with StatusError and an io diagnostic, the same way the parser
// reports its own file access problems. StatusError also covers parser
// invariant violations, which arrive on the result's Logic field.
//
// Watch mode rechecks files as they change. Change bursts are debounced
// so editor save storms collapse into one recheck:
//
//	err := m.Watch(ctx, "grammars/", func(result *grammar.CheckResult) {
//	    fmt.Println(result.Path, result.Status)
//	})
//
// Outcomes are cached by content hash when a cache is configured, so
// rechecking an unchanged file skips the parse entirely. Cached results
// carry the original diagnostics but never the rule tree; use Parse
// when the tree itself is needed.
package grammar
