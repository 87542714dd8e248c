package execution

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// ExerciseExecutor drives one exercise through its ordered test categories:
// the prerequisite gate first, then the independent categories concurrently,
// then the final categories sequentially.
type ExerciseExecutor struct {
	executors []CategoryExecutor
	parallel  *ParallelExecutor
	pool      *remote.Pool
	log       *zap.SugaredLogger
}

// NewExerciseExecutor creates an ExerciseExecutor over the given category
// executors. Phase membership comes from the category tags, never from the
// executor types.
func NewExerciseExecutor(executors []CategoryExecutor, parallel *ParallelExecutor, pool *remote.Pool, log *zap.SugaredLogger) *ExerciseExecutor {
	return &ExerciseExecutor{
		executors: executors,
		parallel:  parallel,
		pool:      pool,
		log:       log,
	}
}

// Execute runs every applicable category for the exercise. Gating: a failed
// prerequisite skips everything else (status ERROR for transport failures,
// FAIL otherwise). Status is strict AND-of-categories.
func (e *ExerciseExecutor) Execute(ctx context.Context, ex domain.Exercise) domain.ExerciseTestResults {
	start := time.Now()
	er := domain.ExerciseTestResults{
		ExerciseID: ex.ID,
		LessonCode: ex.LessonCode,
		StartedAt:  start,
	}

	gate, independent, final := e.applicableByPhase(ex)

	// Phase 1: the prerequisite gate, strictly sequential.
	if gate != nil {
		e.log.Debugw("running prerequisite gate", "exercise", ex.ID)
		runner := e.pool.Acquire()
		result := RunCategory(ctx, gate, ex, runner)
		e.pool.Release(runner)
		er.Categories = append(er.Categories, result)

		if !result.Passed {
			if transport, ok := result.Details["transport_error"].(bool); ok && transport {
				er.Status = domain.StatusError
				er.Summary = fmt.Sprintf("environment error: %s", result.ErrorMessage)
			} else {
				er.Status = domain.StatusFail
				er.Summary = "prerequisite failed; remaining categories skipped"
			}
			return e.finish(er, start)
		}
	}

	// Phase 2: independent categories, concurrent and bounded.
	if len(independent) > 0 {
		tasks := make([]Task, 0, len(independent))
		for _, exec := range independent {
			exec := exec
			tasks = append(tasks, Task{
				Category:   exec.Category(),
				ExerciseID: ex.ID,
				Run: func() domain.TestResult {
					runner := e.pool.Acquire()
					defer e.pool.Release(runner)
					return RunCategory(ctx, exec, ex, runner)
				},
			})
		}
		e.log.Debugw("running independent categories", "exercise", ex.ID, "count", len(tasks))
		results := e.parallel.Execute(ctx, tasks)
		// Completion order is nondeterministic; record in the declared
		// category order for a stable report.
		sortByCategoryOrder(results, independent)
		er.Categories = append(er.Categories, results...)
	}

	// Phase 3: final categories, sequential in declared order. Cleanup
	// must observe the state the earlier phases left behind.
	for _, exec := range final {
		e.log.Debugw("running final category", "exercise", ex.ID, "category", exec.Category())
		runner := e.pool.Acquire()
		result := RunCategory(ctx, exec, ex, runner)
		e.pool.Release(runner)
		er.Categories = append(er.Categories, result)
	}

	er.Status = statusOf(er.Categories)
	er.Summary = summarize(er.Categories)
	return e.finish(er, start)
}

// applicableByPhase splits the applicable executors into the three phases.
// Final-phase order follows domain.FinalPhaseOrder, not registration order.
func (e *ExerciseExecutor) applicableByPhase(ex domain.Exercise) (gate CategoryExecutor, independent, final []CategoryExecutor) {
	byCategory := make(map[domain.Category]CategoryExecutor)
	for _, exec := range e.executors {
		if !exec.Applicable(ex) {
			continue
		}
		switch exec.Category().Phase() {
		case domain.PhaseGate:
			gate = exec
		case domain.PhaseIndependent:
			independent = append(independent, exec)
		case domain.PhaseFinal:
			byCategory[exec.Category()] = exec
		}
	}
	for _, tag := range domain.FinalPhaseOrder {
		if exec, ok := byCategory[tag]; ok {
			final = append(final, exec)
		}
	}
	return gate, independent, final
}

func (e *ExerciseExecutor) finish(er domain.ExerciseTestResults, start time.Time) domain.ExerciseTestResults {
	er.FinishedAt = time.Now()
	er.DurationSeconds = er.FinishedAt.Sub(start).Seconds()
	for _, tr := range er.Categories {
		er.Bugs = append(er.Bugs, tr.Bugs...)
	}
	domain.SortBugs(er.Bugs)
	return er
}

// statusOf derives the exercise status: ERROR when an internal error
// reached the boundary, FAIL when any executed category failed, PASS only
// when every executed category passed and at least one ran.
func statusOf(results []domain.TestResult) domain.Status {
	if len(results) == 0 {
		return domain.StatusSkipped
	}
	status := domain.StatusPass
	for _, tr := range results {
		if tr.Passed {
			continue
		}
		if tr.ErrorMessage != "" && len(tr.Bugs) == 0 {
			return domain.StatusError
		}
		status = domain.StatusFail
	}
	return status
}

func summarize(results []domain.TestResult) string {
	passed := 0
	bugs := 0
	for _, tr := range results {
		if tr.Passed {
			passed++
		}
		bugs += len(tr.Bugs)
	}
	return fmt.Sprintf("%d/%d categories passed, %d bug(s)", passed, len(results), bugs)
}

// sortByCategoryOrder arranges results to match the order the executors
// were registered in.
func sortByCategoryOrder(results []domain.TestResult, executors []CategoryExecutor) {
	order := make(map[domain.Category]int, len(executors))
	for i, exec := range executors {
		order[exec.Category()] = i
	}
	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].Category] < order[results[j].Category]
	})
}
