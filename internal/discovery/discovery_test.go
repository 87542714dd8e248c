package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// materialsFixture lays out a small course tree:
//
//	ch1-getting-started/intro-ge/steps.yaml
//	ch1-getting-started/intro-lab/{grading.sh, solutions/web.yml.sol}
//	ch2-services/svc-review/solutions/setup.sh.sol
//	notes/readme.txt            (not an exercise)
func materialsFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"ch1-getting-started/intro-ge/steps.yaml":             "steps:\n  - description: step\n",
		"ch1-getting-started/intro-lab/grading.sh":            "#!/bin/sh\n",
		"ch1-getting-started/intro-lab/solutions/web.yml.sol": "---\n",
		"ch1-getting-started/intro-lab/instructions.txt":      "Open the web console and click the Deploy button.",
		"ch2-services/svc-review/solutions/setup.sh.sol":      "#!/bin/sh\n",
		"notes/readme.txt":                                    "nothing here",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestScanner_Scan(t *testing.T) {
	root := materialsFixture(t)
	scanner := NewScanner([]string{"vendor"})

	t.Run("finds exercise directories", func(t *testing.T) {
		dirs, err := scanner.Scan(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(dirs) != 3 {
			t.Fatalf("expected 3 exercises, got %d: %v", len(dirs), dirs)
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		if _, err := scanner.Scan("/non/existent/path"); err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		file := filepath.Join(root, "notes", "readme.txt")
		if _, err := scanner.Scan(file); err == nil {
			t.Error("expected error for file path")
		}
	})
}

func TestFilter_FilterByName(t *testing.T) {
	exercises := []string{
		"/materials/ch1/intro-ge",
		"/materials/ch1/intro-lab",
		"/materials/ch2/svc-review",
	}
	filter := NewFilter()

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{"empty pattern keeps all", "", 3},
		{"wildcard prefix", "intro-*", 2},
		{"wildcard contains", "*review*", 1},
		{"plain substring", "lab", 1},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.FilterByName(exercises, tt.pattern)
			if len(got) != tt.want {
				t.Errorf("expected %d matches, got %d: %v", tt.want, len(got), got)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	root := materialsFixture(t)
	classifier := NewClassifier()

	t.Run("lab with grading and solutions", func(t *testing.T) {
		ex, err := classifier.Classify(filepath.Join(root, "ch1-getting-started", "intro-lab"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ex.ID != "intro-lab" {
			t.Errorf("expected id intro-lab, got %s", ex.ID)
		}
		if ex.Kind != domain.KindLab {
			t.Errorf("expected kind lab, got %s", ex.Kind)
		}
		if ex.ChapterNumber != 1 {
			t.Errorf("expected chapter 1, got %d", ex.ChapterNumber)
		}
		if ex.ChapterTitle != "getting started" {
			t.Errorf("expected chapter title 'getting started', got %q", ex.ChapterTitle)
		}
		if len(ex.SolutionFiles) != 1 {
			t.Errorf("expected 1 solution file, got %v", ex.SolutionFiles)
		}
		if ex.GradingScript == "" {
			t.Error("expected grading script path")
		}
		if ex.Instructions == "" {
			t.Error("expected instructions text")
		}
	})

	t.Run("guided exercise without grading", func(t *testing.T) {
		ex, err := classifier.Classify(filepath.Join(root, "ch1-getting-started", "intro-ge"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ex.Kind != domain.KindGuidedExercise {
			t.Errorf("expected guided exercise, got %s", ex.Kind)
		}
		if ex.HasGrading() {
			t.Error("expected no grading script")
		}
		if ex.Title != "Intro Ge" {
			t.Errorf("expected title 'Intro Ge', got %q", ex.Title)
		}
	})

	t.Run("review directory name counts as lab", func(t *testing.T) {
		ex, err := classifier.Classify(filepath.Join(root, "ch2-services", "svc-review"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ex.Kind != domain.KindLab {
			t.Errorf("expected kind lab for -review dir, got %s", ex.Kind)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := classifier.Classify("/no/such/dir"); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
