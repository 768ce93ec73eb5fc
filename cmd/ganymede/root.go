package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - grammar definition toolchain",
	Long: `Ganymede parses, validates, and tracks grammar definition files.

Grammar definitions declare rules as indentation-structured trees:
terminal rules bind a name to a pattern, name-extended rules collect
child rules under an accumulated scope. Ganymede checks them in a
single pass and reports every independent problem it finds, not just
the first:
  - Syntax checking with source context and suggestions
  - Structural validation (duplicate rules, malformed trees)
  - Watch mode with parse caching and check report history

For more information, visit: https://github.com/mercator-hq/ganymede`,
	Version: Version,
}

// Execute runs the root command. Check outcomes travel out of commands
// as *cli.ExitError carrying a graded exit code; every other failure
// exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus GANYMEDE_* overrides when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (text, json)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration file named by --config, or the
// defaults with GANYMEDE_* environment overrides when no file is given.
// The logging flags override whatever the configuration says.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, nil
}

// initLogging installs the process-wide default logger per the logging
// configuration. Logs go to stderr so command output stays parseable.
func initLogging(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Output:    os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	logger.SetDefault()

	return logger, nil
}
