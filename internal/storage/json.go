package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Save writes the run results to a per-run file and mirrors them into the
// latest-results file the bugs viewer loads.
func (s *JSONStorage) Save(results *domain.CourseTestResults) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	runPath := s.cfg.GetRunPath(results.RunID)
	if err := os.MkdirAll(filepath.Dir(runPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(runPath, data, 0644); err != nil {
		return fmt.Errorf("write run results: %w", err)
	}
	if err := os.WriteFile(s.cfg.GetResultsPath(), data, 0644); err != nil {
		return fmt.Errorf("write latest results: %w", err)
	}
	return nil
}

// Load reads the latest course results.
func (s *JSONStorage) Load() (*domain.CourseTestResults, error) {
	path := s.cfg.GetResultsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var results domain.CourseTestResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &results, nil
}

// SaveLatest rewrites the latest results file (e.g. after marking bugs reviewed).
func (s *JSONStorage) SaveLatest(results *domain.CourseTestResults) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetResultsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
