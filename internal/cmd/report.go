package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjell-hpc/jobrecap/internal/config"
	"github.com/fjell-hpc/jobrecap/internal/observability"
	"github.com/fjell-hpc/jobrecap/pkg/auditlog"
	"github.com/fjell-hpc/jobrecap/pkg/jobs"
	"github.com/fjell-hpc/jobrecap/pkg/output"
	"github.com/fjell-hpc/jobrecap/pkg/report"
	"github.com/fjell-hpc/jobrecap/pkg/sacct"
	"github.com/fjell-hpc/jobrecap/pkg/watermark"
)

// runReport executes the full pipeline: resolve the query window, run
// the accounting command, extract jobs, append them to the audit log,
// print the report, and finally advance the watermark. Output is built
// fully before anything is printed, so a fatal error anywhere in the
// pipeline emits nothing partial and leaves the watermark untouched.
func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return exitError(exitInvalidArgument, "Failed to load configuration", err)
	}
	if reportOutput != "table" && reportOutput != "jsonl" {
		return exitError(exitInvalidArgument, "Invalid --output value", fmt.Errorf("expected table or jsonl, got %q", reportOutput))
	}

	runID := uuid.New().String()
	log := observability.CLILogger.With(zap.String("run_id", runID))

	store := watermark.New(watermark.Config{Path: cfg.State.WatermarkFile})
	lastSession, err := store.Last()
	if err != nil {
		return exitError(exitStateFile, "Failed to read watermark", err)
	}

	windowStart, err := resolveWindow(time.Now(), lastSession)
	if err != nil {
		return exitError(exitInvalidArgument, "Invalid time window", err)
	}

	user := cfg.Sacct.User
	if reportUser != "" {
		user = reportUser
	}
	log.Debug("querying accounting records",
		zap.String("user", user),
		zap.Time("window_start", windowStart))

	raw, err := sacct.NewClient(cfg.Sacct.Binary, log).FinishedSince(ctx, user, windowStart)
	if err != nil {
		return exitError(exitExternalCommand, "Accounting command failed", err)
	}

	jobList, err := jobs.Extract(raw)
	if err != nil {
		return exitError(exitFailure, "Malformed accounting output", err)
	}
	log.Debug("extracted jobs", zap.Int("count", len(jobList)))

	// Every extracted job is logged, including ones the display filter
	// hides. A logging failure aborts before the watermark advances.
	if err := auditlog.New(cfg.State.AuditLog).Append(jobList); err != nil {
		return exitError(exitStateFile, "Failed to append audit log", err)
	}

	opts := report.Options{
		SkipStates: cfg.Display.SkipStates,
		Color:      cfg.Display.Color && !reportNoColor,
	}
	if reportOutput == "jsonl" {
		if err := writeJSONL(os.Stdout, runID, user, windowStart, jobList, opts); err != nil {
			return err
		}
	} else {
		printTable(windowStart, jobList, opts)
	}

	advanced, err := store.Advance()
	if err != nil {
		return exitError(exitStateFile, "Failed to advance watermark", err)
	}
	log.Debug("watermark advanced", zap.Time("watermark", advanced))
	return nil
}

// resolveWindow picks the query window start from the mutually
// exclusive selector flags, defaulting to the persisted watermark.
func resolveWindow(now, lastSession time.Time) (time.Time, error) {
	switch {
	case reportSince != "":
		t, err := time.ParseInLocation(jobs.TimestampLayout, reportSince, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse --since %q: expected %s", reportSince, jobs.TimestampLayout)
		}
		return t, nil
	case reportHours != 0:
		if reportHours < 0 {
			return time.Time{}, fmt.Errorf("--hours must be positive, got %d", reportHours)
		}
		return now.Add(-time.Duration(reportHours) * time.Hour), nil
	case reportDays != 0:
		if reportDays < 0 {
			return time.Time{}, fmt.Errorf("--days must be positive, got %d", reportDays)
		}
		return now.AddDate(0, 0, -reportDays), nil
	case reportDay:
		return now.Add(-24 * time.Hour), nil
	default:
		return lastSession, nil
	}
}

// printTable renders the buffered table to stdout.
func printTable(windowStart time.Time, jobList []jobs.Job, opts report.Options) {
	lines := report.Render(jobList, opts)
	if len(lines) == 0 {
		fmt.Println(report.NoJobsMessage(windowStart, opts.Color))
		return
	}

	fmt.Println(report.Title(windowStart, opts.Color))
	fmt.Println(report.Header(opts.Color))
	for _, line := range lines {
		fmt.Println(line)
	}
}

// writeJSONL emits one envelope per extracted job plus a summary.
func writeJSONL(w io.Writer, runID, user string, windowStart time.Time, jobList []jobs.Job, opts report.Options) error {
	jw := output.NewJSONLWriter(w, runID)

	displayed := 0
	for _, job := range jobList {
		if opts.Displayable(job) {
			displayed++
		}
		if err := jw.WriteJob(output.NewJobRecord(job)); err != nil {
			return err
		}
	}

	return jw.WriteSummary(&output.SummaryRecord{
		User:          user,
		WindowStart:   windowStart,
		JobsExtracted: len(jobList),
		JobsDisplayed: displayed,
	})
}
