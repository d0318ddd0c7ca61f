package watermark

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "last_session")
	return New(Config{Path: path, Now: func() time.Time { return now }}), path
}

func TestLast_MissingFileReturnsMidnight(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 45, 0, time.Local)
	store, path := newTestStore(t, now)

	got, err := store.Last()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local), got)

	// The default window does not create the file.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLast_EmptyFileSelfHeals(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 45, 0, time.Local)
	store, path := newTestStore(t, now)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := store.Last()
	require.NoError(t, err)
	assert.Equal(t, now, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31 14:30:45", string(raw))
}

func TestLast_ParsesPersistedTimestamp(t *testing.T) {
	store, path := newTestStore(t, time.Now())
	require.NoError(t, os.WriteFile(path, []byte("2026-08-30 09:15:00"), 0o644))

	got, err := store.Last()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 15, 0, 0, time.Local), got)
}

func TestLast_CorruptTimestampIsFatal(t *testing.T) {
	store, path := newTestStore(t, time.Now())
	require.NoError(t, os.WriteFile(path, []byte("not a timestamp"), 0o644))

	_, err := store.Last()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoWatermark)
}

func TestRead_NoWatermark(t *testing.T) {
	store, path := newTestStore(t, time.Now())

	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoWatermark)

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	_, err = store.Read()
	assert.ErrorIs(t, err, ErrNoWatermark)
}

func TestAdvance_OverwritesUnconditionally(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local)
	store, path := newTestStore(t, now)
	require.NoError(t, os.WriteFile(path, []byte("2020-01-01 00:00:00"), 0o644))

	got, err := store.Advance()
	require.NoError(t, err)
	assert.Equal(t, now, got)

	persisted, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, now, persisted)
}

func TestSave_CreatesStateDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "last_session")
	store := New(Config{Path: path})

	require.NoError(t, store.Save(time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02 03:04:05", string(raw))
}
