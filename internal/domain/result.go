package domain

import "time"

// Status is the overall outcome of one exercise run
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusError   Status = "ERROR"
	StatusSkipped Status = "SKIPPED"
)

// StepResult records the replay of one instruction step. It is fully
// populated by the workflow executor in one pass and never mutated after
// return.
type StepResult struct {
	Ordinal         int      `json:"ordinal"`
	Description     string   `json:"description"`
	Commands        []string `json:"commands,omitempty"`
	Success         bool     `json:"success"`
	Output          string   `json:"output,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	DurationSeconds float64  `json:"duration_seconds"`
}

// TestResult is the outcome of one test category applied to one exercise.
// Passed is authoritative; a recorded Bug forces Passed to false at the
// executor boundary.
type TestResult struct {
	Category        Category       `json:"category"`
	ExerciseID      string         `json:"exercise_id"`
	Passed          bool           `json:"passed"`
	Timestamp       string         `json:"timestamp"`
	DurationSeconds float64        `json:"duration_seconds"`
	Bugs            []Bug          `json:"bugs,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
}

// ExerciseTestResults aggregates the category results for one exercise run.
// Categories preserves execution order; immutable once the orchestrator
// records it.
type ExerciseTestResults struct {
	ExerciseID      string       `json:"exercise_id"`
	LessonCode      string       `json:"lesson_code"`
	StartedAt       time.Time    `json:"started_at"`
	FinishedAt      time.Time    `json:"finished_at"`
	DurationSeconds float64      `json:"duration_seconds"`
	Status          Status       `json:"status"`
	Categories      []TestResult `json:"test_categories"`
	Bugs            []Bug        `json:"bugs,omitempty"`
	Summary         string       `json:"summary,omitempty"`
	Cached          bool         `json:"cached,omitempty"`
}

// Category returns the recorded result for a category tag, if it executed.
func (er *ExerciseTestResults) Category(tag Category) (TestResult, bool) {
	for _, tr := range er.Categories {
		if tr.Category == tag {
			return tr, true
		}
	}
	return TestResult{}, false
}

// CourseTestResults is the course-level aggregate handed to the report
// layer. ExercisesTested always equals len(Exercises).
type CourseTestResults struct {
	CourseCode         string                `json:"course_code"`
	RunID              string                `json:"run_id"`
	TestDate           time.Time             `json:"test_date"`
	TotalExercises     int                   `json:"total_exercises"`
	ExercisesTested    int                   `json:"exercises_tested"`
	ExercisesPassed    int                   `json:"exercises_passed"`
	ExercisesFailed    int                   `json:"exercises_failed"`
	ExercisesSkipped   int                   `json:"exercises_skipped"`
	DurationSeconds    float64               `json:"duration_seconds"`
	Exercises          []ExerciseTestResults `json:"exercises"`
	Bugs               []Bug                 `json:"bugs,omitempty"`
	Summary            map[string]any        `json:"summary"`
	AllExercisesTested bool                  `json:"all_exercises_tested"`
}

// CourseContext is the opaque course profile handed over by the content
// detection collaborator. The engine never inspects Profile keys beyond
// pass-through into reports.
type CourseContext struct {
	CourseCode    string            `json:"course_code"`
	Title         string            `json:"title,omitempty"`
	MaterialsRoot string            `json:"materials_root"`
	Profile       map[string]string `json:"profile,omitempty"`
}
