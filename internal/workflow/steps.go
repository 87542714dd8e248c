package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StepsFileName is the sidecar file holding the extracted instruction steps
// for one exercise.
const StepsFileName = "steps.yaml"

// Step is one extracted instruction step. The content extraction
// collaborator produces these; the replay executor consumes them verbatim.
type Step struct {
	Ordinal        int      `yaml:"ordinal" json:"ordinal"`
	Description    string   `yaml:"description" json:"description"`
	Commands       []string `yaml:"commands" json:"commands,omitempty"`
	ExpectedOutput string   `yaml:"expected_output" json:"expected_output,omitempty"`
}

// Workflow is the ordered step sequence for one exercise.
type Workflow struct {
	ExerciseID string `yaml:"exercise_id" json:"exercise_id"`
	Steps      []Step `yaml:"steps" json:"steps"`
}

// LoadFile reads and parses a steps sidecar file.
func LoadFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading steps file: %w", err)
	}
	return Load(data)
}

// LoadDir loads the steps sidecar from an exercise materials directory.
// Returns (nil, nil) when the exercise has no extracted workflow.
func LoadDir(materialsDir string) (*Workflow, error) {
	path := filepath.Join(materialsDir, StepsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadFile(path)
}

// Load parses steps YAML bytes. Every step needs a description; ordinals
// are normalized to source order so a malformed extraction cannot reorder
// the replay.
func Load(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing steps YAML: %w", err)
	}
	if len(w.Steps) == 0 {
		return nil, fmt.Errorf("steps file has no steps")
	}
	for i := range w.Steps {
		if w.Steps[i].Description == "" {
			return nil, fmt.Errorf("step %d has no description", i+1)
		}
		w.Steps[i].Ordinal = i + 1
	}
	return &w, nil
}
