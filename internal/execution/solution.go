package execution

import (
	"context"
	"fmt"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// SolutionExecutor applies every solution file and requires zero failures.
type SolutionExecutor struct {
	opts Options
}

// NewSolutionExecutor creates a SolutionExecutor.
func NewSolutionExecutor(opts Options) *SolutionExecutor {
	return &SolutionExecutor{opts: opts}
}

func (e *SolutionExecutor) Category() domain.Category { return domain.CategorySolution }

func (e *SolutionExecutor) Applicable(ex domain.Exercise) bool {
	return len(ex.SolutionFiles) > 0
}

func (e *SolutionExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	apps := applySolutions(ctx, ex, runner, e.opts)

	tr := domain.TestResult{Passed: true, Details: map[string]any{
		"solutions_applied": len(apps),
	}}

	var failed []string
	for _, app := range apps {
		if app.Success {
			continue
		}
		failed = append(failed, app.File)
		tr.Bugs = append(tr.Bugs, domain.Bug{
			Severity:       domain.SeverityP1,
			ExerciseID:     ex.ID,
			Description:    fmt.Sprintf("solution file %s failed to apply: %s", app.File, excerpt(app.Output, 500)),
			Recommendation: "fix the solution file so students can reach the graded end state",
			VerificationSteps: []string{
				fmt.Sprintf("copy %s to %s", app.File, app.RemotePath),
				"execute it and confirm a zero exit status",
			},
		})
	}
	if len(failed) > 0 {
		tr.Passed = false
		tr.Details["failed_solutions"] = failed
	}
	return tr
}
