package jobs

import (
	"strconv"
	"strings"
)

// IDKind classifies the identifier field of an accounting record.
type IDKind int

const (
	// IDNotJob marks rows that carry no independent job semantics:
	// dotted sub-records (batch/extern steps) and anything whose
	// identifier matches no job grammar. These are skipped, never
	// treated as errors.
	IDNotJob IDKind = iota

	// IDSingular is a plain numeric job identifier.
	IDSingular

	// IDArray is one element of an array job, base_index.
	IDArray
)

// JobID is a classified job identifier.
type JobID struct {
	Kind  IDKind
	Base  int
	Index int // meaningful only when Kind == IDArray
}

// ParseJobID classifies the first token of an accounting record.
//
// Order matters: a dotted identifier is a sub-record regardless of what
// surrounds the dot, and a malformed array suffix (e.g. "39122024_16+")
// is discarded rather than falling through to singular classification.
func ParseJobID(token string) JobID {
	if strings.Contains(token, ".") {
		return JobID{Kind: IDNotJob}
	}

	if base, index, found := strings.Cut(token, "_"); found {
		b, okB := parseJobNumber(base)
		i, okI := parseJobNumber(index)
		if okB && okI {
			return JobID{Kind: IDArray, Base: b, Index: i}
		}
		return JobID{Kind: IDNotJob}
	}

	if id, ok := parseJobNumber(token); ok {
		return JobID{Kind: IDSingular, Base: id}
	}

	return JobID{Kind: IDNotJob}
}

// parseJobNumber parses a non-negative decimal integer with no sign
// characters, the only form slurm emits for job ids and array indices.
func parseJobNumber(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
