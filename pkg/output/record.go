// Package output provides JSONL output for job reports.
//
// Each line is a self-contained typed envelope, so downstream tooling
// can parse the stream line by line without framing state.
package output

import (
	"encoding/json"
	"time"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

// Record type constants define the envelope types for JSONL output.
const (
	// TypeJob identifies extracted job records.
	TypeJob = "jobrecap.job.v1"

	// TypeSummary identifies the final summary record.
	TypeSummary = "jobrecap.summary.v1"
)

// Record is the envelope for all JSONL output.
type Record struct {
	// Type identifies the record type (e.g., "jobrecap.job.v1").
	Type string `json:"type"`

	// TS is when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// RunID correlates all records of one invocation.
	RunID string `json:"run_id"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// JobRecord is the data payload for one extracted job.
type JobRecord struct {
	// JobID is the display identifier ("123" or "123_4").
	JobID string `json:"job_id"`

	// Base is the numeric identifier shared by array siblings.
	Base int `json:"jobid_base"`

	// ArrayIndex is present only for array-job elements.
	ArrayIndex *int `json:"array_index,omitempty"`

	Name      string     `json:"name"`
	AllocCPUs int        `json:"alloccpus"`
	Elapsed   string     `json:"elapsed"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	State     string     `json:"state"`
}

// NewJobRecord converts an extracted job into its JSONL payload.
func NewJobRecord(job jobs.Job) *JobRecord {
	return &JobRecord{
		JobID:      job.DisplayID(),
		Base:       job.ID,
		ArrayIndex: job.ArrayIndex,
		Name:       job.Name,
		AllocCPUs:  job.AllocCPUs,
		Elapsed:    job.Elapsed,
		Start:      job.Start,
		End:        job.End,
		State:      job.State,
	}
}

// SummaryRecord is the data payload closing a report stream.
type SummaryRecord struct {
	// User is the account that was queried.
	User string `json:"user"`

	// WindowStart is the start of the query window.
	WindowStart time.Time `json:"window_start"`

	// JobsExtracted counts jobs that passed the extraction filter.
	JobsExtracted int `json:"jobs_extracted"`

	// JobsDisplayed counts jobs that also passed the display filter.
	JobsDisplayed int `json:"jobs_displayed"`
}
