// Package sacct invokes the slurm accounting command and returns its
// raw columnar output. The command is a black-box text producer here;
// all interpretation of the output lives in pkg/jobs.
package sacct

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fjell-hpc/jobrecap/pkg/jobs"
)

// Fields is the column list requested from sacct, in the order the
// extraction pipeline expects. Width suffixes keep long names from
// being truncated. Changing this list changes the record width; it must
// stay in lockstep with jobs.RecordFields.
var Fields = []string{
	"jobid%20",
	"jobname%30",
	"alloccpus",
	"elapsed",
	"start",
	"end",
	"state",
}

// ExecCommandFunc matches exec.CommandContext so tests can substitute a
// fake command.
type ExecCommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Client runs the accounting command.
type Client struct {
	binary      string
	execCommand ExecCommandFunc
	logger      *zap.Logger
}

// NewClient returns a Client invoking the given binary (normally
// "sacct").
func NewClient(binary string, logger *zap.Logger) *Client {
	return &Client{
		binary:      binary,
		execCommand: exec.CommandContext,
		logger:      logger,
	}
}

// WithExec replaces the command constructor. Tests use this to feed
// canned output through the real pipeline.
func (c *Client) WithExec(f ExecCommandFunc) *Client {
	c.execCommand = f
	return c
}

// FinishedSince queries accounting records for user with a start time
// of since, returning the raw headerless output.
func (c *Client) FinishedSince(ctx context.Context, user string, since time.Time) (string, error) {
	args := []string{
		"-u", user,
		"-n",
		"-S", since.Format(jobs.TimestampLayout),
		"--format=" + strings.Join(Fields, ","),
	}

	cmd := c.execCommand(ctx, c.binary, args...)
	c.logger.Debug("invoking accounting command", zap.String("cmd", cmd.String()))

	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		c.logger.Error("accounting command failed",
			zap.String("cmd", cmd.String()),
			zap.String("stderr", stderr),
			zap.Error(err))
		return "", fmt.Errorf("run %s: %w", c.binary, err)
	}

	return string(out), nil
}
