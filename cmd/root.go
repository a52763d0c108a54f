// Package cmd provides the root command and CLI setup for sweep.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var verboseFlag bool
var logFileFlag string

var logFile *os.File

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Parameter scan engine for simulated experiment fragments",
		Long: `Sweep drives an experiment fragment through generated scan points along
one or more parameter axes. Scans are described by a JSON spec (or the
built-in default) combining per-axis point generators:

  linear, centre_span        equally spaced points, one level
  list                       explicit value list, one level
  refining, centre_span_refining
                             ever finer grid, never terminates
  expanding                  constant spacing growing outward from a centre

Use "sweep points" to inspect the generated points, "sweep describe" for
the scan metadata and "sweep run" to execute a scan of the simulated
Rabi flop fragment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logFile != nil {
				_ = logFile.Close()
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "also write logs as JSON to this file")

	return cmd
}

// setupLogging fans the engine's structured logs out to stderr and, when
// requested, a JSON log file.
func setupLogging() error {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if logFileFlag != "" {
		f, err := os.OpenFile(logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
