/*
Package cli provides command-line interface utilities for Ganymede.

The cli package includes output formatters, progress reporters, and common CLI
helpers used by the ganymede command.

Output Formatting:

The cli package supports text and JSON output for displaying command
results; report exports additionally produce CSV through the report
exporters. Format flags are validated with ParseFormat:

	format, err := cli.ParseFormat(flagValue, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	formatter := cli.NewFormatter(format)
	if err := formatter.FormatTo(os.Stdout, data); err != nil {
		return err
	}

Progress Reporting:

For long-running operations, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(totalItems)
	for i := 0; i < totalItems; i++ {
		// Do work
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown

Exit Codes:

Commands that grade their outcome wrap the failure in an ExitError so
the entry point can exit with the graded code:

	return cli.NewExitError(2, fmt.Errorf("unreadable grammar file"))
*/
package cli
