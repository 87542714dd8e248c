package metrics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Named budget phases. lab_start/lab_finish cover the lifecycle commands,
// student_sim the workflow replay, total the whole exercise.
const (
	PhaseLabStart   = "lab_start"
	PhaseLabFinish  = "lab_finish"
	PhaseStudentSim = "student_sim"
	PhaseTotal      = "total"
)

// Budgets maps a phase name to its allowed seconds.
type Budgets map[string]float64

// DefaultBudgets are the per-phase second limits used when no budgets file
// is configured.
func DefaultBudgets() Budgets {
	return Budgets{
		PhaseLabStart:   60,
		PhaseLabFinish:  60,
		PhaseStudentSim: 300,
		PhaseTotal:      600,
	}
}

// LoadBudgets reads a budgets YAML file of phase: seconds pairs and merges
// it over the defaults.
func LoadBudgets(path string) (Budgets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading budgets file: %w", err)
	}
	var overrides Budgets
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing budgets YAML: %w", err)
	}
	budgets := DefaultBudgets()
	for phase, seconds := range overrides {
		if seconds <= 0 {
			return nil, fmt.Errorf("budget for %s must be positive, got %v", phase, seconds)
		}
		budgets[phase] = seconds
	}
	return budgets, nil
}

// Violation records one phase exceeding its budget.
type Violation struct {
	ExerciseID string  `json:"exercise_id"`
	Phase      string  `json:"phase"`
	Actual     float64 `json:"actual"`
	Budget     float64 `json:"budget"`
	OverBy     float64 `json:"over_by"`
}

// budgetPhase maps category durations onto named phases.
var budgetPhase = map[domain.Category]string{
	domain.CategoryPrereq:   PhaseLabStart,
	domain.CategoryCleanup:  PhaseLabFinish,
	domain.CategoryWorkflow: PhaseStudentSim,
}

// CheckBudgets compares each exercise's phase durations to the budgets and
// returns a violation record for every overrun. Reporting only.
func CheckBudgets(results []domain.ExerciseTestResults, budgets Budgets) []Violation {
	var violations []Violation
	for _, er := range results {
		for _, tr := range er.Categories {
			phase, ok := budgetPhase[tr.Category]
			if !ok {
				phase = string(tr.Category)
			}
			budget, ok := budgets[phase]
			if !ok {
				continue
			}
			if tr.DurationSeconds > budget {
				violations = append(violations, Violation{
					ExerciseID: er.ExerciseID,
					Phase:      phase,
					Actual:     tr.DurationSeconds,
					Budget:     budget,
					OverBy:     tr.DurationSeconds - budget,
				})
			}
		}

		if budget, ok := budgets[PhaseTotal]; ok && er.DurationSeconds > budget {
			violations = append(violations, Violation{
				ExerciseID: er.ExerciseID,
				Phase:      PhaseTotal,
				Actual:     er.DurationSeconds,
				Budget:     budget,
				OverBy:     er.DurationSeconds - budget,
			})
		}
	}
	return violations
}
