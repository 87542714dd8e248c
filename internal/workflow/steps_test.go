package workflow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("valid steps", func(t *testing.T) {
		data := []byte(`
exercise_id: net-review
steps:
  - description: Verify connectivity
    commands:
      - ping -c1 servera
    expected_output: "1 received"
  - description: Read the lab introduction
  - ordinal: 99
    description: Restart the service
    commands:
      - systemctl restart httpd
`)
		w, err := Load(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.ExerciseID != "net-review" {
			t.Errorf("expected exercise id net-review, got %s", w.ExerciseID)
		}
		if len(w.Steps) != 3 {
			t.Fatalf("expected 3 steps, got %d", len(w.Steps))
		}
		// Ordinals follow source order even when the file lies.
		for i, step := range w.Steps {
			if step.Ordinal != i+1 {
				t.Errorf("step %d: expected ordinal %d, got %d", i, i+1, step.Ordinal)
			}
		}
		if w.Steps[0].ExpectedOutput != "1 received" {
			t.Errorf("expected output pattern preserved, got %q", w.Steps[0].ExpectedOutput)
		}
	})

	t.Run("no steps", func(t *testing.T) {
		if _, err := Load([]byte("exercise_id: empty\nsteps: []\n")); err == nil {
			t.Error("expected error for empty steps")
		}
	})

	t.Run("missing description", func(t *testing.T) {
		data := []byte("steps:\n  - commands: [ls]\n")
		if _, err := Load(data); err == nil {
			t.Error("expected error for step without description")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := Load([]byte("steps: [")); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing sidecar is not an error", func(t *testing.T) {
		w, err := LoadDir(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w != nil {
			t.Error("expected nil workflow for missing sidecar")
		}
	})

	t.Run("sidecar present", func(t *testing.T) {
		content := "steps:\n  - description: step one\n    commands: [true]\n"
		if err := os.WriteFile(filepath.Join(dir, StepsFileName), []byte(content), 0644); err != nil {
			t.Fatalf("write sidecar: %v", err)
		}
		w, err := LoadDir(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w == nil || len(w.Steps) != 1 {
			t.Fatalf("expected 1 step, got %+v", w)
		}
	})
}
