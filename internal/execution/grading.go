package execution

import (
	"context"
	"fmt"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/parser"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// GradingExecutor is a meta-test over the grading script itself, not the
// exercise content. Three scenarios: grading with the solution applied must
// certify (a failure is a false negative), grading on a reset environment
// must reject (a pass is a false positive), and rejection messages must be
// actionable.
type GradingExecutor struct {
	opts    Options
	grading *parser.GradingParser
}

// NewGradingExecutor creates a GradingExecutor.
func NewGradingExecutor(opts Options) *GradingExecutor {
	return &GradingExecutor{opts: opts, grading: parser.NewGradingParser()}
}

func (e *GradingExecutor) Category() domain.Category { return domain.CategoryGrading }

func (e *GradingExecutor) Applicable(ex domain.Exercise) bool { return ex.HasGrading() }

func (e *GradingExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	tr := domain.TestResult{Passed: true, Details: map[string]any{}}
	gradeCmd := fmt.Sprintf("lab grade %s", ex.ID)

	// Scenario 1: the solution phase left the exercise in its end state;
	// grading must report zero failed checks.
	withSolution := runner.Run(ctx, gradeCmd, e.opts.CommandTimeout)
	solReport := e.grading.Parse(withSolution.Combined(), withSolution.Success)
	tr.Details["with_solution_failed_checks"] = solReport.FailedChecks
	if !solReport.Passed() {
		tr.Passed = false
		tr.Bugs = append(tr.Bugs, domain.Bug{
			Severity:       domain.SeverityP1,
			Category:       "false_negative",
			ExerciseID:     ex.ID,
			Description:    fmt.Sprintf("grading reports %d failed check(s) with the solution applied: %s", solReport.FailedChecks, excerpt(joinMessages(solReport.FailureMessages), 500)),
			Recommendation: "fix the grading checks so a correctly solved exercise grades at 100%",
		})
	}

	// Scenario 2: reset and grade without any solution; grading must fail.
	runner.Run(ctx, fmt.Sprintf("lab finish %s", ex.ID), e.opts.CommandTimeout)
	runner.Run(ctx, fmt.Sprintf("lab start %s", ex.ID), e.opts.CommandTimeout)
	withoutSolution := runner.Run(ctx, gradeCmd, e.opts.CommandTimeout)
	noSolReport := e.grading.Parse(withoutSolution.Combined(), withoutSolution.Success)
	tr.Details["without_solution_failed_checks"] = noSolReport.FailedChecks
	if noSolReport.Passed() {
		tr.Passed = false
		tr.Bugs = append(tr.Bugs, domain.Bug{
			Severity:       domain.SeverityP0,
			Category:       "false_positive",
			ExerciseID:     ex.ID,
			Description:    "grading passes on a freshly started exercise with no solution applied; broken student work would be certified as correct",
			Recommendation: "add grading checks that can tell an unsolved exercise from a solved one",
		})
	}

	// Scenario 3: rejection messages must tell the student what to fix.
	// An unclear message is a warning, never a bug.
	if len(noSolReport.FailureMessages) > 0 {
		var vague []string
		for _, msg := range noSolReport.FailureMessages {
			if !parser.Actionable(msg) {
				vague = append(vague, msg)
			}
		}
		if len(vague) > 0 {
			tr.Details["unclear_messages"] = vague
			tr.Details["warning"] = "grading failure messages lack corrective wording"
		}
	}

	return tr
}

func joinMessages(messages []string) string {
	out := ""
	for i, m := range messages {
		if i > 0 {
			out += "; "
		}
		out += m
	}
	return out
}
