package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetWindowFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		reportDay = false
		reportHours = 0
		reportDays = 0
		reportSince = ""
	})
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	lastSession := time.Date(2026, 8, 29, 18, 30, 0, 0, time.Local)

	t.Run("defaults to watermark", func(t *testing.T) {
		resetWindowFlags(t)
		got, err := resolveWindow(now, lastSession)
		require.NoError(t, err)
		assert.Equal(t, lastSession, got)
	})

	t.Run("day", func(t *testing.T) {
		resetWindowFlags(t)
		reportDay = true
		got, err := resolveWindow(now, lastSession)
		require.NoError(t, err)
		assert.Equal(t, now.Add(-24*time.Hour), got)
	})

	t.Run("hours", func(t *testing.T) {
		resetWindowFlags(t)
		reportHours = 6
		got, err := resolveWindow(now, lastSession)
		require.NoError(t, err)
		assert.Equal(t, now.Add(-6*time.Hour), got)
	})

	t.Run("days", func(t *testing.T) {
		resetWindowFlags(t)
		reportDays = 3
		got, err := resolveWindow(now, lastSession)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, -3), got)
	})

	t.Run("since", func(t *testing.T) {
		resetWindowFlags(t)
		reportSince = "2026-08-30T08:00:00"
		got, err := resolveWindow(now, lastSession)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local), got)
	})

	t.Run("since with bad format", func(t *testing.T) {
		resetWindowFlags(t)
		reportSince = "2026-08-30 08:00:00"
		_, err := resolveWindow(now, lastSession)
		require.Error(t, err)
	})

	t.Run("negative hours rejected", func(t *testing.T) {
		resetWindowFlags(t)
		reportHours = -2
		_, err := resolveWindow(now, lastSession)
		require.Error(t, err)
	})

	t.Run("negative days rejected", func(t *testing.T) {
		resetWindowFlags(t)
		reportDays = -1
		_, err := resolveWindow(now, lastSession)
		require.Error(t, err)
	})
}

func TestWindowFlagsMutuallyExclusive(t *testing.T) {
	resetWindowFlags(t)

	rootCmd.SetArgs([]string{"--day", "--hours", "3"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")

	rootCmd.SetArgs(nil)
}
