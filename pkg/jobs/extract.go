package jobs

import "strings"

// RecordFields is the number of columns requested from sacct. Tokenizing
// relies on every well-formed row contributing exactly this many
// whitespace-separated tokens, so it must stay in lockstep with the
// column list the accounting command is invoked with.
const RecordFields = 7

// StateRunning is the state excluded from extraction entirely: a job
// that is still executing is neither logged nor displayed.
const StateRunning = "RUNNING"

// StateCompleted is the successful terminal state.
const StateCompleted = "COMPLETED"

// Extract parses raw sacct output into the extraction-filtered job list.
//
// The stream is split on arbitrary whitespace and partitioned into
// consecutive RecordFields-sized chunks; a short trailing chunk is
// dropped. Record order is preserved, which the display grouper relies
// on: sacct emits all elements of one array job contiguously.
func Extract(raw string) ([]Job, error) {
	tokens := strings.Fields(raw)

	var out []Job
	for i := 0; i+RecordFields <= len(tokens); i += RecordFields {
		record := tokens[i : i+RecordFields]

		id := ParseJobID(record[0])
		if id.Kind == IDNotJob {
			continue
		}

		job, err := buildJob(id, record)
		if err != nil {
			return nil, err
		}
		if job.State == StateRunning {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}
