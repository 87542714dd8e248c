// Package cache short-circuits re-testing of exercises whose materials have
// not changed since they last passed. Only PASS results are stored: a cached
// FAIL could mask a since-fixed exercise.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// EntryVersion tags the on-disk format so a future migration can detect old
// entries instead of misreading them.
const EntryVersion = 1

// DefaultMaxAge is how long a cached PASS stays valid.
const DefaultMaxAge = 24 * time.Hour

// Entry is one persisted cache record. The fingerprint echo lets a reader
// self-validate an entry against the name it was loaded under.
type Entry struct {
	Version     int                        `json:"version"`
	Fingerprint string                     `json:"fingerprint"`
	WrittenAt   time.Time                  `json:"written_at"`
	Result      domain.ExerciseTestResults `json:"result"`
}

// Store is a filesystem-backed result cache, one JSON file per fingerprint.
// The directory is an explicit construction argument, never an ambient
// home-relative path.
type Store struct {
	dir    string
	maxAge time.Duration
}

// NewStore creates a Store rooted at dir. A non-positive maxAge uses
// DefaultMaxAge.
func NewStore(dir string, maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{dir: dir, maxAge: maxAge}
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

// Get returns the cached result for an exercise, or nil on any kind of
// miss: no entry, stale entry, corrupt entry, or changed fingerprint.
// Corruption is never surfaced as an error; the entry is overwritten on the
// next successful run.
func (s *Store) Get(ex domain.Exercise, contentRoot string) *domain.ExerciseTestResults {
	fingerprint, err := Fingerprint(ex, contentRoot)
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(s.entryPath(fingerprint))
	if err != nil {
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if entry.Version != EntryVersion || entry.Fingerprint != fingerprint {
		return nil
	}
	if time.Since(entry.WrittenAt) > s.maxAge {
		return nil
	}
	return &entry.Result
}

// Set stores a passing result under the exercise's current fingerprint.
// Non-PASS results are silently not stored. The write is atomic: a sibling
// temp file is renamed into place, so a reader never observes a partial
// entry and a crash mid-write leaves the previous entry intact.
func (s *Store) Set(ex domain.Exercise, contentRoot string, result domain.ExerciseTestResults) error {
	if result.Status != domain.StatusPass {
		return nil
	}

	fingerprint, err := Fingerprint(ex, contentRoot)
	if err != nil {
		return fmt.Errorf("fingerprint %s: %w", ex.ID, err)
	}

	entry := Entry{
		Version:     EntryVersion,
		Fingerprint: fingerprint,
		WrittenAt:   time.Now(),
		Result:      result,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, fingerprint+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp entry: %w", err)
	}
	if err := os.Rename(tmpName, s.entryPath(fingerprint)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entry for an exercise's current fingerprint.
func (s *Store) Invalidate(ex domain.Exercise, contentRoot string) error {
	fingerprint, err := Fingerprint(ex, contentRoot)
	if err != nil {
		return err
	}
	err = os.Remove(s.entryPath(fingerprint))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Prune removes entries older than the max age and leftover temp files.
// Returns the number of entries removed.
func (s *Store) Prune() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		if strings.Contains(de.Name(), ".tmp-") {
			if os.Remove(path) == nil {
				removed++
			}
			continue
		}
		if !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		stale := json.Unmarshal(data, &entry) != nil ||
			entry.Version != EntryVersion ||
			time.Since(entry.WrittenAt) > s.maxAge
		if stale && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Clear removes every entry. Returns the number of entries removed.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		if os.Remove(filepath.Join(s.dir, de.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats summarizes the cache directory for the CLI.
type Stats struct {
	Entries int
	Stale   int
	Bytes   int64
}

// Stat walks the cache directory and counts entries.
func (s *Store) Stat() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("read cache dir: %w", err)
	}

	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.Bytes += info.Size()

		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			stats.Stale++
			continue
		}
		var entry Entry
		if json.Unmarshal(data, &entry) != nil ||
			entry.Version != EntryVersion ||
			time.Since(entry.WrittenAt) > s.maxAge {
			stats.Stale++
		}
	}
	return stats, nil
}
