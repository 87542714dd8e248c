package storage

import (
	"os"
	"testing"

	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/domain"
)

func testStorage(t *testing.T) *JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.OutputDir = t.TempDir()
	return NewJSONStorage(cfg)
}

func TestSaveAndLoad(t *testing.T) {
	s := testStorage(t)
	results := &domain.CourseTestResults{
		CourseCode: "RH124",
		RunID:      "run01",
		Exercises: []domain.ExerciseTestResults{
			{ExerciseID: "intro-lab", Status: domain.StatusFail, Bugs: []domain.Bug{
				{ID: "b1", Severity: domain.SeverityP1, Description: "grading missed a broken service"},
			}},
		},
	}

	if err := s.Save(results); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Both the per-run file and latest.json exist.
	if _, err := os.Stat(s.cfg.GetRunPath("run01")); err != nil {
		t.Errorf("per-run file missing: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.RunID != "run01" || len(loaded.Exercises) != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Exercises[0].Bugs[0].Description != "grading missed a broken service" {
		t.Errorf("bug round-trip lost the description")
	}
}

func TestSaveLatest_PersistsReviewedFlag(t *testing.T) {
	s := testStorage(t)
	results := &domain.CourseTestResults{
		CourseCode: "RH124",
		RunID:      "run02",
		Bugs:       []domain.Bug{{ID: "b1", Severity: domain.SeverityP2, Description: "step 3 output mismatch"}},
	}
	if err := s.Save(results); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	results.Bugs[0].Reviewed = true
	if err := s.SaveLatest(results); err != nil {
		t.Fatalf("SaveLatest() error = %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Bugs[0].Reviewed {
		t.Error("reviewed flag did not survive the save-back")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := testStorage(t)
	if _, err := s.Load(); err == nil {
		t.Error("expected an error when no results were saved yet")
	}
}
