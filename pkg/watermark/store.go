// Package watermark persists the "last checked" timestamp between runs.
//
// The watermark marks the boundary between already-reported and
// not-yet-reported jobs. It is read once at process start to compute
// the default query window and unconditionally overwritten with the
// current time as the very last action of a successful run, so a run
// that fails part-way never advances it.
package watermark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Layout is the on-disk timestamp format.
const Layout = "2006-01-02 15:04:05"

// ErrNoWatermark reports that no usable watermark has been recorded.
var ErrNoWatermark = errors.New("no watermark recorded")

// Config configures a Store.
type Config struct {
	// Path is the watermark file. Required.
	Path string

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Store is a file-backed watermark.
type Store struct {
	path string
	now  func() time.Time
}

// New creates a Store over the configured file.
func New(cfg Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{path: cfg.Path, now: now}
}

// Read returns the persisted watermark without side effects. A missing
// or empty file yields ErrNoWatermark; unparseable contents are an
// error.
func (s *Store) Read() (time.Time, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNoWatermark
		}
		return time.Time{}, fmt.Errorf("read watermark %s: %w", s.path, err)
	}

	contents := strings.TrimSpace(string(raw))
	if contents == "" {
		return time.Time{}, ErrNoWatermark
	}

	t, err := time.ParseInLocation(Layout, contents, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse watermark %s: %w", s.path, err)
	}
	return t, nil
}

// Last returns the start of the default query window.
//
// No watermark file: today's local midnight, without creating the file.
// An existing but empty file is self-healed: the current time is
// written and returned. Anything else is a strict Read.
func (s *Store) Last() (time.Time, error) {
	t, err := s.Read()
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNoWatermark) {
		return time.Time{}, err
	}

	now := s.now()
	if _, statErr := os.Stat(s.path); statErr == nil {
		// File exists but is empty.
		if err := s.Save(now); err != nil {
			return time.Time{}, err
		}
		return now, nil
	}

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
}

// Save unconditionally overwrites the watermark with t.
func (s *Store) Save(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(t.Format(Layout)), 0o644); err != nil {
		return fmt.Errorf("write watermark %s: %w", s.path, err)
	}
	return nil
}

// Advance records the current time as the new watermark and returns it.
func (s *Store) Advance() (time.Time, error) {
	now := s.now()
	if err := s.Save(now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}
