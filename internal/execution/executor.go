// Package execution contains the test engine: category executors, the
// per-exercise phase machine, the bounded parallel batch runner, and the
// course orchestrator.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// CategoryExecutor is one validation concern applied to an exercise.
// Implementations report expected failures as Bugs inside a normally
// returned TestResult and never propagate errors to the caller.
type CategoryExecutor interface {
	// Category returns the fixed tag this executor reports under.
	Category() domain.Category

	// Applicable reports whether the exercise carries the material this
	// category validates. Inapplicable categories are not run at all.
	Applicable(ex domain.Exercise) bool

	// Test runs the validation. Called only through RunCategory, which owns
	// the panic boundary and the result invariants.
	Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult
}

// RunCategory is the executor boundary. It stamps category, exercise id,
// timestamp and wall-clock duration, converts a panic into a single P0
// internal-error bug, and enforces that a recorded bug forces passed=false.
func RunCategory(ctx context.Context, exec CategoryExecutor, ex domain.Exercise, runner remote.CommandRunner) (result domain.TestResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = domain.TestResult{
				Passed: false,
				Bugs: []domain.Bug{{
					Severity:       domain.SeverityP0,
					Category:       string(exec.Category()),
					ExerciseID:     ex.ID,
					Description:    fmt.Sprintf("internal error in %s executor: %v", exec.Category(), r),
					Recommendation: "report this as a harness defect; the exercise itself was not assessed",
				}},
				ErrorMessage: fmt.Sprintf("internal error: %v", r),
			}
		}

		result.Category = exec.Category()
		result.ExerciseID = ex.ID
		result.Timestamp = start.UTC().Format(time.RFC3339)
		result.DurationSeconds = time.Since(start).Seconds()
		if len(result.Bugs) > 0 {
			result.Passed = false
		}
		for i := range result.Bugs {
			if result.Bugs[i].Category == "" {
				result.Bugs[i].Category = string(exec.Category())
			}
			if result.Bugs[i].ExerciseID == "" {
				result.Bugs[i].ExerciseID = ex.ID
			}
		}
	}()

	result = exec.Test(ctx, ex, runner)
	return result
}
