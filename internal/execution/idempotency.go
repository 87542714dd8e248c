package execution

import (
	"context"
	"fmt"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/parser"
	"github.com/eparenti/eqa-sub002/internal/remote"
	"github.com/eparenti/eqa-sub002/internal/workflow"
)

// IdempotencyExecutor re-applies the exercise automation and asserts
// convergence: no new failures on repeat cycles, and playbook recaps report
// changed=0 from the second cycle on.
type IdempotencyExecutor struct {
	opts     Options
	playbook *parser.PlaybookParser
	steps    func(ex domain.Exercise) (*workflow.Workflow, error)
}

// NewIdempotencyExecutor creates an IdempotencyExecutor.
func NewIdempotencyExecutor(opts Options) *IdempotencyExecutor {
	if opts.IdempotencyCycles <= 0 {
		opts.IdempotencyCycles = 3
	}
	return &IdempotencyExecutor{
		opts:     opts,
		playbook: parser.NewPlaybookParser(),
		steps: func(ex domain.Exercise) (*workflow.Workflow, error) {
			return workflow.LoadDir(ex.MaterialsDir)
		},
	}
}

func (e *IdempotencyExecutor) Category() domain.Category { return domain.CategoryIdempotency }

// Applicable: only exercises with automation to re-apply, solutions or
// extracted step commands.
func (e *IdempotencyExecutor) Applicable(ex domain.Exercise) bool {
	if len(ex.SolutionFiles) > 0 {
		return true
	}
	w, err := e.steps(ex)
	return err == nil && w != nil
}

// cycleOutcome captures one application cycle for divergence comparison.
type cycleOutcome struct {
	failures []string
	changed  int
	recap    bool
}

func (e *IdempotencyExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	cycles := e.opts.IdempotencyCycles
	tr := domain.TestResult{Passed: true, Details: map[string]any{"cycles": cycles}}

	outcomes := make([]cycleOutcome, 0, cycles)
	for cycle := 1; cycle <= cycles; cycle++ {
		outcome := e.applyOnce(ctx, ex, runner)
		outcomes = append(outcomes, outcome)

		if cycle == 1 {
			// First-cycle failures are solution defects, owned by TC-SOL;
			// recorded for context, never as idempotency bugs.
			if len(outcome.failures) > 0 {
				tr.Details["cycle_1_failures"] = outcome.failures
			}
			continue
		}

		if newFailures := diffFailures(outcomes[0].failures, outcome.failures); len(newFailures) > 0 {
			tr.Passed = false
			tr.Bugs = append(tr.Bugs, domain.Bug{
				Severity:       domain.SeverityP1,
				ExerciseID:     ex.ID,
				Description:    fmt.Sprintf("automation diverged on cycle %d: new failures %v", cycle, newFailures),
				Recommendation: "make the automation idempotent; repeat applications must not introduce errors",
			})
			break
		}
		if outcome.recap && outcome.changed > 0 {
			tr.Passed = false
			tr.Bugs = append(tr.Bugs, domain.Bug{
				Severity:       domain.SeverityP1,
				ExerciseID:     ex.ID,
				Description:    fmt.Sprintf("playbook reported changed=%d on cycle %d; repeat runs must converge to changed=0", outcome.changed, cycle),
				Recommendation: "make every task idempotent so a re-run reports zero changes",
			})
			break
		}
	}

	tr.Details["cycles_run"] = len(outcomes)
	return tr
}

// applyOnce runs one application cycle: solutions when the exercise has
// them, otherwise the extracted step commands.
func (e *IdempotencyExecutor) applyOnce(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) cycleOutcome {
	var outcome cycleOutcome

	if len(ex.SolutionFiles) > 0 {
		for _, app := range applySolutions(ctx, ex, runner, e.opts) {
			if !app.Success {
				outcome.failures = append(outcome.failures, app.File)
			}
			if app.Executed {
				recap := e.playbook.Parse(app.Output)
				if recap.Found() {
					outcome.recap = true
					outcome.changed += recap.Changed
				}
			}
		}
		return outcome
	}

	w, err := e.steps(ex)
	if err != nil || w == nil {
		return outcome
	}
	for _, step := range w.Steps {
		for _, command := range step.Commands {
			result := runner.Run(ctx, command, e.opts.CommandTimeout)
			if !result.Success {
				outcome.failures = append(outcome.failures, command)
			}
			recap := e.playbook.Parse(result.Combined())
			if recap.Found() {
				outcome.recap = true
				outcome.changed += recap.Changed
			}
		}
	}
	return outcome
}

// diffFailures returns the failures present on a later cycle but absent on
// the first.
func diffFailures(first, later []string) []string {
	seen := make(map[string]bool, len(first))
	for _, f := range first {
		seen[f] = true
	}
	var diff []string
	for _, f := range later {
		if !seen[f] {
			diff = append(diff, f)
		}
	}
	return diff
}
