package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
	"mercator-hq/ganymede/pkg/grammar"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the parsed rule tree",
	Long: `Parse a grammar definition file and print its rule tree.

The tree command renders the grammar the way the parser sees it: one
line per rule with its pattern, child rules indented beneath their
parents. It shares the check command's exit codes, so a grammar that
fails to parse prints its diagnostics and exits non-zero.

Examples:
  # Print the rule tree
  ganymede tree grammars/json.gdl`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	manager := grammar.NewManager(managerConfig(cfg), nil, nil, slog.Default())

	grammarTree, err := manager.Parse(args[0])
	if err != nil {
		return treeExitError(args[0], err)
	}

	fmt.Print(grammarTree.String())
	return nil
}

// treeExitError prints a parse failure and maps it onto the graded
// check exit codes.
func treeExitError(path string, err error) error {
	var list *gdlErrors.ErrorList
	if errors.As(err, &list) {
		for _, diag := range list.Errors {
			fmt.Fprintf(os.Stderr, "✗ %s\n", diag.Detail())
		}
		return cli.NewExitError(exitDiagnostics,
			cli.NewCommandError("tree", fmt.Errorf("found %d problem(s) in %s", list.Count(), path)))
	}

	var logic *gdlErrors.LogicError
	if errors.As(err, &logic) {
		return cli.NewExitError(exitFault, cli.NewCommandError("tree", err))
	}

	var single *gdlErrors.Error
	if errors.As(err, &single) && single.Type != gdlErrors.ErrorTypeIO {
		fmt.Fprintf(os.Stderr, "✗ %s\n", single.Detail())
		return cli.NewExitError(exitDiagnostics,
			cli.NewCommandError("tree", fmt.Errorf("found 1 problem in %s", path)))
	}

	return cli.NewExitError(exitUnreadable, cli.NewCommandError("tree", err))
}
