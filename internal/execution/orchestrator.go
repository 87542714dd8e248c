package execution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eparenti/eqa-sub002/internal/cache"
	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/metrics"
)

// Progress receives per-exercise completion updates during a course run.
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}

// Orchestrator iterates every exercise of a course and aggregates the
// results. Full coverage is a guarantee: when a filter trims the exercise
// list, the aggregate carries an explicit all_exercises_tested=false flag,
// never a silent truncation.
type Orchestrator struct {
	executor *ExerciseExecutor
	cache    *cache.Store
	budgets  metrics.Budgets
	progress Progress
	log      *zap.SugaredLogger
}

// NewOrchestrator creates an Orchestrator. cache may be nil to force
// re-execution; progress may be nil.
func NewOrchestrator(executor *ExerciseExecutor, store *cache.Store, budgets metrics.Budgets, progress Progress, log *zap.SugaredLogger) *Orchestrator {
	if budgets == nil {
		budgets = metrics.DefaultBudgets()
	}
	return &Orchestrator{
		executor: executor,
		cache:    store,
		budgets:  budgets,
		progress: progress,
		log:      log,
	}
}

// RunCourse tests every exercise in the list. totalExercises is the count
// the course detection found before any filtering; exercises is what
// actually runs. A cached PASS short-circuits execution and counts as
// tested.
func (o *Orchestrator) RunCourse(ctx context.Context, course domain.CourseContext, exercises []domain.Exercise, totalExercises int) domain.CourseTestResults {
	start := time.Now()
	results := domain.CourseTestResults{
		CourseCode:     course.CourseCode,
		RunID:          uuid.NewString(),
		TestDate:       start,
		TotalExercises: totalExercises,
	}

	completed, passed, failed := 0, 0, 0
	for _, ex := range exercises {
		er := o.runExercise(ctx, course, ex)
		o.assignBugIDs(&er)

		results.Exercises = append(results.Exercises, er)
		results.Bugs = append(results.Bugs, er.Bugs...)
		completed++
		switch er.Status {
		case domain.StatusPass:
			results.ExercisesPassed++
			passed++
		case domain.StatusSkipped:
			results.ExercisesSkipped++
		default:
			results.ExercisesFailed++
			failed++
		}
		if o.progress != nil {
			o.progress.Update(completed, passed, failed)
		}
	}
	if o.progress != nil {
		o.progress.Finish()
	}

	results.ExercisesTested = len(results.Exercises)
	results.AllExercisesTested = results.ExercisesTested == results.TotalExercises
	if !results.AllExercisesTested {
		o.log.Warnw("not all exercises were tested",
			"tested", results.ExercisesTested,
			"total", results.TotalExercises)
	}

	results.DurationSeconds = time.Since(start).Seconds()
	domain.SortBugs(results.Bugs)
	results.Summary = o.summarize(&results)
	return results
}

func (o *Orchestrator) runExercise(ctx context.Context, course domain.CourseContext, ex domain.Exercise) domain.ExerciseTestResults {
	if o.cache != nil {
		if cached := o.cache.Get(ex, course.MaterialsRoot); cached != nil {
			o.log.Infow("cache hit", "exercise", ex.ID)
			hit := *cached
			hit.Cached = true
			return hit
		}
	}

	o.log.Infow("testing exercise", "exercise", ex.ID, "kind", ex.Kind)
	er := o.executor.Execute(ctx, ex)

	if o.cache != nil && er.Status == domain.StatusPass {
		if err := o.cache.Set(ex, course.MaterialsRoot, er); err != nil {
			o.log.Warnw("cache write failed", "exercise", ex.ID, "error", err)
		}
	}
	return er
}

// assignBugIDs stamps unique IDs on the category-level bug records and
// rebuilds the exercise union from the stamped copies, so every view of a
// bug in the report carries the same ID.
func (o *Orchestrator) assignBugIDs(er *domain.ExerciseTestResults) {
	for ci := range er.Categories {
		for bi := range er.Categories[ci].Bugs {
			if er.Categories[ci].Bugs[bi].ID == "" {
				er.Categories[ci].Bugs[bi].ID = uuid.NewString()[:8]
			}
		}
	}
	er.Bugs = er.Bugs[:0]
	for _, tr := range er.Categories {
		er.Bugs = append(er.Bugs, tr.Bugs...)
	}
	domain.SortBugs(er.Bugs)
}

func (o *Orchestrator) summarize(results *domain.CourseTestResults) map[string]any {
	passRate := 0.0
	if results.ExercisesTested > 0 {
		passRate = float64(results.ExercisesPassed) / float64(results.ExercisesTested)
	}
	score := metrics.QualityScore(results.Exercises, results.TotalExercises, results.Bugs)
	violations := metrics.CheckBudgets(results.Exercises, o.budgets)

	return map[string]any{
		"pass_rate":            passRate,
		"quality_score":        score,
		"budget_violations":    violations,
		"all_exercises_tested": results.AllExercisesTested,
		"bug_count":            len(results.Bugs),
	}
}
