// Package cmd implements the jobrecap command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjell-hpc/jobrecap/internal/observability"
)

// Exit codes returned through exitError.
const (
	exitFailure         = 1
	exitInvalidArgument = 2
	exitExternalCommand = 3
	exitStateFile       = 4
)

var (
	cfgFile string
	verbose bool

	reportDay     bool
	reportHours   int
	reportDays    int
	reportSince   string
	reportUser    string
	reportOutput  string
	reportNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "jobrecap",
	Short: "Report batch jobs that finished since the last check",
	Long: `Report recently-finished slurm jobs for a user.

jobrecap invokes the cluster accounting command, extracts finished jobs
from its output, appends them to a persistent log, and prints a grouped
summary with array-job siblings collapsed under one header. A persisted
watermark timestamp makes repeated invocations report only jobs finished
since the previous run.

Examples:
  jobrecap                  # everything since the last run
  jobrecap --day            # last 24 hours
  jobrecap --hours 6        # last 6 hours
  jobrecap --since 2026-08-30T08:00:00
  jobrecap -u alice --output jsonl`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.InitCLILogger(verbose)
	},
	RunE: runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/jobrecap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&reportDay, "day", false, "Report jobs finished in the last 24 hours")
	rootCmd.Flags().IntVar(&reportHours, "hours", 0, "Report jobs finished in the last N hours")
	rootCmd.Flags().IntVar(&reportDays, "days", 0, "Report jobs finished in the last N days")
	rootCmd.Flags().StringVar(&reportSince, "since", "", "Report jobs finished since a specific time (YYYY-MM-DDTHH:MM:SS)")
	rootCmd.Flags().StringVarP(&reportUser, "user", "u", "", "Slurm username (default: invoking user)")
	rootCmd.Flags().StringVar(&reportOutput, "output", "table", "Output format (table|jsonl)")
	rootCmd.Flags().BoolVar(&reportNoColor, "no-color", false, "Disable ANSI highlighting")

	rootCmd.MarkFlagsMutuallyExclusive("day", "hours", "days", "since")
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		observability.CLILogger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// codedError carries an exit code alongside the underlying error.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// exitError creates an error that will cause the CLI to exit with the
// given code.
func exitError(code int, message string, err error) error {
	return &codedError{code: code, err: fmt.Errorf("%s: %w", message, err)}
}

func exitCode(err error) int {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return exitFailure
}
