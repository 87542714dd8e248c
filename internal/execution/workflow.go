package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
	"github.com/eparenti/eqa-sub002/internal/workflow"
)

// WorkflowExecutor replays the extracted instruction steps in order, the
// way a student would type them.
type WorkflowExecutor struct {
	opts  Options
	steps func(ex domain.Exercise) (*workflow.Workflow, error)
}

// NewWorkflowExecutor creates a WorkflowExecutor.
func NewWorkflowExecutor(opts Options) *WorkflowExecutor {
	return &WorkflowExecutor{
		opts: opts,
		steps: func(ex domain.Exercise) (*workflow.Workflow, error) {
			return workflow.LoadDir(ex.MaterialsDir)
		},
	}
}

func (e *WorkflowExecutor) Category() domain.Category { return domain.CategoryWorkflow }

func (e *WorkflowExecutor) Applicable(ex domain.Exercise) bool {
	w, err := e.steps(ex)
	return err == nil && w != nil
}

func (e *WorkflowExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	w, err := e.steps(ex)
	if err != nil {
		return domain.TestResult{
			Passed: false,
			Bugs: []domain.Bug{{
				Severity:       domain.SeverityP2,
				ExerciseID:     ex.ID,
				Description:    fmt.Sprintf("instruction steps could not be loaded: %v", err),
				Recommendation: "re-run content extraction for this exercise",
			}},
		}
	}
	if w == nil {
		return domain.TestResult{Passed: true, Details: map[string]any{"note": "no extracted steps"}}
	}

	tr := domain.TestResult{Passed: true, Details: map[string]any{}}
	stepResults := make([]domain.StepResult, 0, len(w.Steps))

	for _, step := range w.Steps {
		sr := e.replayStep(ctx, step, runner)
		stepResults = append(stepResults, sr)
		if !sr.Success {
			tr.Passed = false
			tr.Bugs = append(tr.Bugs, domain.Bug{
				Severity:       domain.SeverityP2,
				ExerciseID:     ex.ID,
				Description:    fmt.Sprintf("step %d (%s) failed: %s", sr.Ordinal, sr.Description, excerpt(sr.ErrorMessage, 500)),
				Recommendation: "verify the instructions match the lab environment; update the step or the environment",
			})
		}
	}

	tr.Details["steps"] = stepResults
	tr.Details["steps_total"] = len(stepResults)
	return tr
}

// replayStep executes one step. A step with no commands is trivially
// successful; a step with commands succeeds iff every command exits zero
// and, when supplied, the expected output pattern appears case-insensitively
// in the combined output.
func (e *WorkflowExecutor) replayStep(ctx context.Context, step workflow.Step, runner remote.CommandRunner) domain.StepResult {
	start := time.Now()
	sr := domain.StepResult{
		Ordinal:     step.Ordinal,
		Description: step.Description,
		Commands:    step.Commands,
		Success:     true,
	}

	var outputs []string
	for _, command := range step.Commands {
		result := runner.Run(ctx, command, e.opts.CommandTimeout)
		outputs = append(outputs, result.Combined())
		if !result.Success {
			sr.Success = false
			sr.ErrorMessage = fmt.Sprintf("command %q exited %d: %s", command, result.ReturnCode, excerpt(result.Combined(), 500))
			break
		}
	}
	sr.Output = strings.Join(outputs, "\n")

	if sr.Success && step.ExpectedOutput != "" {
		if !strings.Contains(strings.ToLower(sr.Output), strings.ToLower(step.ExpectedOutput)) {
			sr.Success = false
			sr.ErrorMessage = fmt.Sprintf("expected output %q not found", step.ExpectedOutput)
		}
	}

	sr.DurationSeconds = time.Since(start).Seconds()
	return sr
}
