package execution

import (
	"context"
	"fmt"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// FrameworkExecutor runs the lab framework's built-in self-test. Disabled
// unless the caller opts in; a failed framework probe is a note, not a bug,
// since the framework may simply not ship on this course image.
type FrameworkExecutor struct {
	opts Options
}

// NewFrameworkExecutor creates a FrameworkExecutor.
func NewFrameworkExecutor(opts Options) *FrameworkExecutor {
	return &FrameworkExecutor{opts: opts}
}

func (e *FrameworkExecutor) Category() domain.Category { return domain.CategoryFramework }

func (e *FrameworkExecutor) Applicable(ex domain.Exercise) bool {
	return e.opts.SelfTestEnabled
}

func (e *FrameworkExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	probe := runner.Run(ctx, e.opts.FrameworkProbeCommand, e.opts.CommandTimeout)
	if !probe.Success {
		return domain.TestResult{Passed: true, Details: map[string]any{
			"note": "lab framework not detected; self-test skipped",
		}}
	}

	tr := domain.TestResult{Passed: true, Details: map[string]any{
		"framework_version": excerpt(probe.Stdout, 100),
	}}

	selfTest := runner.Run(ctx, fmt.Sprintf("%s %s", e.opts.SelfTestCommand, ex.ID), e.opts.CommandTimeout)
	tr.Details["self_test_return_code"] = selfTest.ReturnCode
	if !selfTest.Success {
		tr.Passed = false
		tr.Bugs = append(tr.Bugs, domain.Bug{
			Severity:       domain.SeverityP1,
			ExerciseID:     ex.ID,
			Description:    fmt.Sprintf("framework self-test exited %d: %s", selfTest.ReturnCode, excerpt(selfTest.Combined(), 500)),
			Recommendation: "run the self-test manually on the workstation and fix the reported framework issue",
		})
	}
	return tr
}
