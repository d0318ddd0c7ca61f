package sacct

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

// The tokenizer chunks output into jobs.RecordFields-sized records, so
// the requested column count must match exactly.
func TestFieldsMatchRecordWidth(t *testing.T) {
	assert.Len(t, Fields, jobs.RecordFields)
}

func TestFinishedSince_BuildsArgs(t *testing.T) {
	var gotName string
	var gotArgs []string

	client := NewClient("sacct", zap.NewNop()).WithExec(
		func(ctx context.Context, name string, args ...string) *exec.Cmd {
			gotName = name
			gotArgs = args
			return exec.CommandContext(ctx, "true")
		})

	since := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	_, err := client.FinishedSince(context.Background(), "alice", since)
	require.NoError(t, err)

	assert.Equal(t, "sacct", gotName)
	assert.Equal(t, []string{
		"-u", "alice",
		"-n",
		"-S", "2026-08-30T08:00:00",
		"--format=jobid%20,jobname%30,alloccpus,elapsed,start,end,state",
	}, gotArgs)
}

func TestFinishedSince_ReturnsStdout(t *testing.T) {
	client := NewClient("sacct", zap.NewNop()).WithExec(
		func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "echo", "56938942 Name 2 00:01:00 2023-04-22T16:15:05 2023-04-22T16:16:05 COMPLETED")
		})

	out, err := client.FinishedSince(context.Background(), "alice", time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "56938942")

	// The raw text feeds straight into extraction.
	list, err := jobs.Extract(out)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 56938942, list[0].ID)
}

func TestFinishedSince_CommandFailure(t *testing.T) {
	client := NewClient("sacct", zap.NewNop()).WithExec(
		func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "false")
		})

	_, err := client.FinishedSince(context.Background(), "alice", time.Now())
	require.Error(t, err)
}
