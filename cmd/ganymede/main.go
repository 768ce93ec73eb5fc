// Ganymede is a toolchain for grammar definition files.
//
// It parses indentation-structured grammar definitions into rule trees,
// validates them, and tracks check outcomes over time:
//   - Single-pass checking with every independent problem reported
//   - Watch mode that rechecks grammars as they change on disk
//   - Content-addressed parse caching (memory or SQLite)
//   - Check report history with querying, export, and retention
//   - Prometheus metrics for watch mode
//
// Usage:
//
//	# Check grammar files
//	ganymede check grammars/json.gdl
//
//	# Check a whole directory, JSON output for CI
//	ganymede check grammars/ --format json
//
//	# Print the parsed rule tree
//	ganymede tree grammars/json.gdl
//
//	# Watch a directory and recheck on change
//	ganymede watch grammars/
//
//	# Query recorded check reports
//	ganymede reports list --status failed --limit 20
//
//	# Show version information
//	ganymede version
//
// For complete documentation, see: https://github.com/mercator-hq/ganymede
package main

func main() {
	Execute()
}
