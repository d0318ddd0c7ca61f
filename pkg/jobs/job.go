// Package jobs turns raw sacct output into typed job records.
//
// The pipeline is Extract: tokenize the whitespace-delimited stream into
// fixed-width records, classify each record's identifier, build a Job
// from the fields, and drop jobs that are still running. Sub-records
// (batch/extern steps) and unclassifiable rows are discarded silently;
// a record that classifies as a job but fails field parsing aborts the
// whole extraction with ErrMalformedRecord.
package jobs

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is sacct's native timestamp format, used both for
// record fields and for the -S query argument.
const TimestampLayout = "2006-01-02T15:04:05"

// ErrMalformedRecord reports a record that classified as a job but whose
// numeric or timestamp fields do not parse. Extraction is aborted on the
// first such record; no partial results are produced.
var ErrMalformedRecord = errors.New("malformed accounting record")

// Job is one extracted accounting record.
type Job struct {
	// ID is the numeric job identifier. Array-job siblings share it.
	ID int

	// ArrayIndex is set for array-job elements and nil for singular jobs.
	ArrayIndex *int

	// Name is the job name as reported.
	Name string

	// AllocCPUs is the allocated CPU count.
	AllocCPUs int

	// Elapsed is the wall-clock duration, kept verbatim.
	Elapsed string

	// Start is nil when the job never started.
	Start *time.Time

	// End is nil when the job has not finished.
	End *time.Time

	// State is the run state as reported, e.g. COMPLETED, FAILED,
	// CANCELLED+.
	State string
}

// Equal reports whether two jobs denote the same accounting record.
// Identity is (ID, ArrayIndex) only; name, state and timestamps do not
// participate.
func (j Job) Equal(other Job) bool {
	if j.ID != other.ID {
		return false
	}
	if (j.ArrayIndex == nil) != (other.ArrayIndex == nil) {
		return false
	}
	return j.ArrayIndex == nil || *j.ArrayIndex == *other.ArrayIndex
}

// DisplayID renders the identifier in sacct's own form: "123" for
// singular jobs, "123_4" for array elements.
func (j Job) DisplayID() string {
	if j.ArrayIndex != nil {
		return fmt.Sprintf("%d_%d", j.ID, *j.ArrayIndex)
	}
	return strconv.Itoa(j.ID)
}

// buildJob constructs a Job from a classified identifier and its record
// fields. Field positions follow the sacct format request: identifier,
// name, alloccpus, elapsed, start, end, state.
func buildJob(id JobID, fields []string) (Job, error) {
	job := Job{
		ID:      id.Base,
		Name:    fields[1],
		Elapsed: fields[3],
		State:   fields[6],
	}
	if id.Kind == IDArray {
		idx := id.Index
		job.ArrayIndex = &idx
	}

	cpus, err := strconv.Atoi(fields[2])
	if err != nil {
		return Job{}, fmt.Errorf("%w: job %s: alloccpus %q", ErrMalformedRecord, job.DisplayID(), fields[2])
	}
	job.AllocCPUs = cpus

	job.Start, err = parseOptionalTime(fields[4], "Unknown", "None")
	if err != nil {
		return Job{}, fmt.Errorf("%w: job %s: start %q", ErrMalformedRecord, job.DisplayID(), fields[4])
	}

	job.End, err = parseOptionalTime(fields[5], "Unknown")
	if err != nil {
		return Job{}, fmt.Errorf("%w: job %s: end %q", ErrMalformedRecord, job.DisplayID(), fields[5])
	}

	return job, nil
}

// parseOptionalTime parses a timestamp field, mapping sacct's sentinel
// placeholders ("Unknown" for both ends, "None" for a start that never
// happened) to nil instead of attempting a parse.
func parseOptionalTime(field string, sentinels ...string) (*time.Time, error) {
	for _, s := range sentinels {
		if field == s {
			return nil, nil
		}
	}
	t, err := time.ParseInLocation(TimestampLayout, field, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
