// Package auditlog appends every extracted job to a persistent log.
//
// Logging happens before display filtering, so the log carries jobs the
// table hides (pending, cancelled-with-modifier). The file is opened
// for append only and prior content is never truncated.
package auditlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

// Delimiter separates fields within a log line.
const Delimiter = ";"

// none marks an absent timestamp in a log line.
const none = "None"

// Logger appends job records to the configured file.
type Logger struct {
	path string
}

// New returns a Logger writing to path.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Append writes one line per job, in order. Any failure is returned to
// the caller, which must treat it as fatal: the watermark may not
// advance past jobs that were never logged.
func (l *Logger) Append(list []jobs.Job) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log %s: %w", l.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, job := range list {
		if _, err := w.WriteString(Line(job) + "\n"); err != nil {
			return fmt.Errorf("write audit log %s: %w", l.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush audit log %s: %w", l.path, err)
	}
	return nil
}

// Line renders one job as a delimiter-separated log line. Timestamps
// use the canonical sacct form; absent ones are written as "None".
func Line(job jobs.Job) string {
	return strings.Join([]string{
		job.DisplayID(),
		job.Name,
		strconv.Itoa(job.AllocCPUs),
		job.Elapsed,
		formatOptional(job.Start),
		formatOptional(job.End),
		job.State,
	}, Delimiter)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return none
	}
	return t.Format(jobs.TimestampLayout)
}
