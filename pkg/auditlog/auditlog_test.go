package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(jobs.TimestampLayout, value, time.Local)
	require.NoError(t, err)
	return &parsed
}

func TestAppend_OneLinePerJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.log")
	idx := 4

	list := []jobs.Job{
		{ID: 56938942, Name: "SingularJob", AllocCPUs: 2, Elapsed: "00:01:00",
			Start: ts(t, "2023-04-22T16:15:05"), End: ts(t, "2023-04-22T16:16:05"), State: "COMPLETED"},
		{ID: 56938944, ArrayIndex: &idx, Name: "ArrayJob", AllocCPUs: 1, Elapsed: "00:00:00",
			State: "PENDING"},
	}

	require.NoError(t, New(path).Append(list))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	// Log count equals the extraction-filtered count: PENDING is logged
	// even though the display filter hides it.
	require.Len(t, lines, len(list))
	assert.Equal(t, "56938942;SingularJob;2;00:01:00;2023-04-22T16:15:05;2023-04-22T16:16:05;COMPLETED", lines[0])
	assert.Equal(t, "56938944_4;ArrayJob;1;00:00:00;None;None;PENDING", lines[1])
}

func TestAppend_PreservesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier line\n"), 0o644))

	require.NoError(t, New(path).Append([]jobs.Job{{ID: 1, Name: "x", AllocCPUs: 1, Elapsed: "00:00:01", State: "FAILED"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "earlier line\n"))
	assert.Contains(t, string(raw), "1;x;1;00:00:01;None;None;FAILED")
}

func TestAppend_EmptyListTouchesFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.log")
	require.NoError(t, New(path).Append(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestAppend_UnwritablePathFails(t *testing.T) {
	dir := t.TempDir()
	// A directory at the log path makes the open fail.
	path := filepath.Join(dir, "jobs.log")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := New(path).Append([]jobs.Job{{ID: 1, Name: "x", State: "FAILED"}})
	require.Error(t, err)
}
