package report

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

func sampleResults() domain.CourseTestResults {
	return domain.CourseTestResults{
		CourseCode:      "RH124",
		DurationSeconds: 42.5,
		Exercises: []domain.ExerciseTestResults{
			{
				ExerciseID:      "intro-lab",
				DurationSeconds: 30.0,
				Categories: []domain.TestResult{
					{Category: domain.CategoryPrereq, ExerciseID: "intro-lab", Passed: true, DurationSeconds: 5.0},
					{
						Category:        domain.CategorySolution,
						ExerciseID:      "intro-lab",
						Passed:          false,
						DurationSeconds: 12.0,
						Bugs: []domain.Bug{
							{Severity: domain.SeverityP1, Description: "solution playbook failed"},
						},
					},
				},
			},
			{
				ExerciseID:      "intro-ge",
				DurationSeconds: 12.5,
				Categories: []domain.TestResult{
					{Category: domain.CategoryWorkflow, ExerciseID: "intro-ge", Passed: true, DurationSeconds: 12.5},
				},
			},
		},
	}
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJUnit(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteJUnit() error = %v", err)
	}

	var doc junitTestSuites
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	if doc.Name != "RH124" {
		t.Errorf("suites name = %q, want RH124", doc.Name)
	}
	if doc.Tests != 3 || doc.Failures != 1 {
		t.Errorf("counters = %d/%d, want 3 tests and 1 failure", doc.Tests, doc.Failures)
	}
	if len(doc.Suites) != 2 {
		t.Fatalf("suites = %d, want one per exercise", len(doc.Suites))
	}

	lab := doc.Suites[0]
	if lab.Name != "intro-lab" || lab.Tests != 2 || lab.Failures != 1 {
		t.Errorf("intro-lab suite = %+v, want 2 tests, 1 failure", lab)
	}
	if lab.Cases[0].Failure != nil {
		t.Error("passing case should not carry a failure element")
	}
	failed := lab.Cases[1]
	if failed.Failure == nil {
		t.Fatal("failing case should carry a failure element")
	}
	if !strings.Contains(failed.Failure.Content, "solution playbook failed") {
		t.Errorf("failure content = %q, want bug description", failed.Failure.Content)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header plus one per category", len(rows))
	}

	if rows[0][0] != "index" || rows[0][6] != "min_severity" {
		t.Errorf("header = %v", rows[0])
	}

	solution := rows[2]
	if solution[1] != "intro-lab" || solution[2] != string(domain.CategorySolution) {
		t.Errorf("row = %v, want intro-lab solution row", solution)
	}
	if solution[3] != "0" || solution[4] != "1" {
		t.Errorf("row = %v, want failed with one bug", solution)
	}
	if solution[6] != string(domain.SeverityP1) {
		t.Errorf("min_severity = %q, want %q", solution[6], domain.SeverityP1)
	}

	workflow := rows[3]
	if workflow[3] != "1" || workflow[6] != "none" {
		t.Errorf("row = %v, want passed with no bugs", workflow)
	}
}
