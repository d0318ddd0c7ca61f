package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONLWriter writes records as newline-delimited JSON to an io.Writer.
//
// The report pipeline is single-threaded, so writes need no locking;
// each record is emitted as one complete line.
type JSONLWriter struct {
	w     io.Writer
	runID string
	now   func() time.Time
}

// NewJSONLWriter creates a JSONL writer stamping every record with
// runID.
func NewJSONLWriter(w io.Writer, runID string) *JSONLWriter {
	return &JSONLWriter{w: w, runID: runID, now: time.Now}
}

// WriteJob emits a job record.
func (jw *JSONLWriter) WriteJob(job *JobRecord) error {
	return jw.writeRecord(TypeJob, job)
}

// WriteSummary emits the closing summary record.
func (jw *JSONLWriter) WriteSummary(sum *SummaryRecord) error {
	return jw.writeRecord(TypeSummary, sum)
}

func (jw *JSONLWriter) writeRecord(recordType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", recordType, err)
	}

	rec := Record{
		Type:  recordType,
		TS:    jw.now(),
		RunID: jw.runID,
		Data:  payload,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", recordType, err)
	}

	if _, err := jw.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s record: %w", recordType, err)
	}
	return nil
}
