// Package report arranges extracted jobs into display lines.
//
// Grouping is a single forward pass over the extraction-filtered list:
// singular jobs become one line each, and a contiguous run of array-job
// siblings collapses under one parent header with indented child lines.
// Siblings of one array job are assumed contiguous in sacct output; if
// the tool ever interleaved them, one base id would simply produce
// multiple groups.
//
// Lines are returned, not printed, so the caller can hold all output
// until the whole pipeline has succeeded.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

// WindowLayout renders window-start and job timestamps in the table.
const WindowLayout = "Jan-02 15:04"

// Markers for absent timestamps.
const (
	notStartedMarker = "NOT STARTED"
	unknownMarker    = "UNKNOWN"
)

const (
	idWidth      = 15
	nameWidth    = 23
	cpusWidth    = 6
	elapsedWidth = 13
	startWidth   = 13
	endWidth     = 14
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
)

// Options controls rendering.
type Options struct {
	// SkipStates are hidden from the table (but not from the audit
	// log).
	SkipStates []string

	// Color enables ANSI highlighting of states and markers.
	Color bool
}

// Displayable reports whether a job passes the display filter.
func (o Options) Displayable(job jobs.Job) bool {
	for _, s := range o.SkipStates {
		if job.State == s {
			return false
		}
	}
	return true
}

// Header returns the column header row.
func Header(color bool) string {
	h := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idWidth, "Job ID",
		nameWidth, "Job Name",
		cpusWidth, "CPUs",
		elapsedWidth, "Elapsed",
		startWidth, "Start",
		endWidth, "End",
		"State")
	if color {
		return ansiBold + h + ansiReset
	}
	return h
}

// Title returns the leading line above the table.
func Title(windowStart time.Time, color bool) string {
	when := windowStart.Format(WindowLayout)
	if color {
		return ansiBold + "Jobs completed since:" + ansiReset + " " + ansiYellow + when + ansiReset
	}
	return "Jobs completed since: " + when
}

// NoJobsMessage is printed when the display-filtered result is empty.
func NoJobsMessage(windowStart time.Time, color bool) string {
	when := windowStart.Format(WindowLayout)
	if color {
		return ansiBold + "No jobs have finished since" + ansiReset + " " + ansiYellow + when + ansiReset
	}
	return "No jobs have finished since " + when
}

// Render produces the table body for the job list, in input order.
//
// A parent header for an array group appears iff at least one sibling
// in that contiguous group passes the display filter; siblings failing
// the filter are omitted from the indented block.
func Render(list []jobs.Job, opts Options) []string {
	var lines []string

	i := 0
	for i < len(list) {
		job := list[i]

		if job.ArrayIndex == nil {
			if opts.Displayable(job) {
				lines = append(lines, formatJobLine(job.DisplayID(), job, "", opts.Color))
			}
			i++
			continue
		}

		// Collect the contiguous sibling run for this base id.
		start := i
		displayable := false
		for i < len(list) && list[i].ID == job.ID && list[i].ArrayIndex != nil {
			if opts.Displayable(list[i]) {
				displayable = true
			}
			i++
		}
		if !displayable {
			continue
		}

		// Parent header: base id and name only, no state or metrics.
		lines = append(lines, fmt.Sprintf("%-*d %-*s", idWidth, job.ID, nameWidth, job.Name))
		for _, child := range list[start:i] {
			if opts.Displayable(child) {
				lines = append(lines, formatJobLine(strconv.Itoa(*child.ArrayIndex), child, "  ", opts.Color))
			}
		}
	}

	return lines
}

func formatJobLine(id string, job jobs.Job, indent string, color bool) string {
	start := optionalCell(job.Start, notStartedMarker, startWidth, color)
	end := optionalCell(job.End, unknownMarker, endWidth, color)

	state := job.State
	if color {
		if state == jobs.StateCompleted {
			state = ansiGreen + state + ansiReset
		} else {
			state = ansiRed + state + ansiReset
		}
	}

	return fmt.Sprintf("%s%-*s %-*s %-*d %-*s %s %s %s",
		indent,
		idWidth-len(indent), id,
		nameWidth, job.Name,
		cpusWidth, job.AllocCPUs,
		elapsedWidth, job.Elapsed,
		start, end, state)
}

// optionalCell formats a timestamp column, substituting the marker for
// an absent value. Padding happens before coloring so escape bytes do
// not distort the column width.
func optionalCell(t *time.Time, marker string, width int, color bool) string {
	if t == nil {
		cell := fmt.Sprintf("%-*s", width, marker)
		if color {
			return ansiYellow + cell + ansiReset
		}
		return cell
	}
	return fmt.Sprintf("%-*s", width, t.Format(WindowLayout))
}
