package execution

import (
	"context"
	"testing"
	"time"

	"github.com/eparenti/eqa-sub002/internal/cache"
	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/logging"
	"github.com/eparenti/eqa-sub002/internal/metrics"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

type recordingProgress struct {
	updates  int
	finished bool
}

func (p *recordingProgress) Update(completed, passed, failed int) { p.updates++ }
func (p *recordingProgress) Finish()                              { p.finished = true }

func courseFixture(t *testing.T) (domain.CourseContext, []domain.Exercise) {
	t.Helper()
	exA := labExercise(t, "setup.sh.sol")
	exB := labExercise(t, "site.yml.sol")
	exB.ID = "second-lab"
	course := domain.CourseContext{CourseCode: "DO180", MaterialsRoot: t.TempDir()}
	return course, []domain.Exercise{exA, exB}
}

// gradeAwareRunner alternates grading outcomes so each exercise's two
// grading scenarios behave correctly: certify with the solution, reject
// without it.
func gradeAwareRunner() *fakeRunner {
	return newFakeRunner().onFunc("lab grade", func(call int) remote.CommandResult {
		if call%2 == 1 {
			return remote.CommandResult{Success: true, Stdout: "✓ ok"}
		}
		return remote.CommandResult{Success: false, ReturnCode: 1, Stdout: "✗ expected httpd running"}
	})
}

func remoteFail() remote.CommandResult {
	return remote.CommandResult{Success: false, ReturnCode: 1, Stderr: "failed"}
}

func newTestOrchestrator(runner *fakeRunner, store *cache.Store, progress Progress) *Orchestrator {
	executor := newExerciseExecutor(runner, allExecutors(DefaultOptions())...)
	return NewOrchestrator(executor, store, metrics.DefaultBudgets(), progress, logging.Nop())
}

func TestOrchestrator_RunCourse(t *testing.T) {
	course, exercises := courseFixture(t)
	progress := &recordingProgress{}
	orch := newTestOrchestrator(gradeAwareRunner(), nil, progress)

	results := orch.RunCourse(context.Background(), course, exercises, 2)

	if results.CourseCode != "DO180" {
		t.Errorf("unexpected course code %s", results.CourseCode)
	}
	if results.RunID == "" {
		t.Error("expected a run id")
	}
	if results.ExercisesTested != 2 || results.TotalExercises != 2 {
		t.Errorf("expected 2/2 tested, got %d/%d", results.ExercisesTested, results.TotalExercises)
	}
	if !results.AllExercisesTested {
		t.Error("full coverage flag must be set when every exercise ran")
	}
	if results.ExercisesTested != len(results.Exercises) {
		t.Error("tested count must equal the recorded results")
	}
	if progress.updates != 2 || !progress.finished {
		t.Errorf("expected 2 progress updates and a finish, got %d/%v", progress.updates, progress.finished)
	}

	summary := results.Summary
	if _, ok := summary["pass_rate"]; !ok {
		t.Error("summary must carry pass_rate")
	}
	score, ok := summary["quality_score"].(metrics.Breakdown)
	if !ok {
		t.Fatalf("summary must carry the quality score breakdown, got %T", summary["quality_score"])
	}
	if score.Total < 0 || score.Total > 100 {
		t.Errorf("quality score out of bounds: %d", score.Total)
	}
}

func TestOrchestrator_FilteredRunSetsCoverageFlag(t *testing.T) {
	course, exercises := courseFixture(t)
	orch := newTestOrchestrator(gradeAwareRunner(), nil, nil)

	// A name filter trimmed the list: 1 of 2 runs.
	results := orch.RunCourse(context.Background(), course, exercises[:1], 2)

	if results.AllExercisesTested {
		t.Error("coverage flag must be false when exercises were filtered out")
	}
	if results.ExercisesTested != 1 {
		t.Errorf("expected 1 tested, got %d", results.ExercisesTested)
	}
	if flag, _ := results.Summary["all_exercises_tested"].(bool); flag {
		t.Error("summary must echo all_exercises_tested=false")
	}
}

func TestOrchestrator_CacheShortCircuits(t *testing.T) {
	course, exercises := courseFixture(t)
	store := cache.NewStore(t.TempDir(), time.Hour)

	first := newTestOrchestrator(gradeAwareRunner(), store, nil)
	initial := first.RunCourse(context.Background(), course, exercises, 2)
	if initial.ExercisesPassed != 2 {
		t.Fatalf("fixture run should pass both exercises: %+v", initial.Summary)
	}

	// Second run: a fresh runner records what actually executes.
	runner := gradeAwareRunner()
	second := newTestOrchestrator(runner, store, nil)
	rerun := second.RunCourse(context.Background(), course, exercises, 2)

	if rerun.ExercisesTested != 2 {
		t.Errorf("cached exercises still count as tested, got %d", rerun.ExercisesTested)
	}
	if runner.ran("lab start") != 0 {
		t.Error("a valid cached PASS must short-circuit execution")
	}
	for _, er := range rerun.Exercises {
		if !er.Cached {
			t.Errorf("expected cached result for %s", er.ExerciseID)
		}
	}
}

func TestOrchestrator_FailuresAreNotCached(t *testing.T) {
	course, exercises := courseFixture(t)
	store := cache.NewStore(t.TempDir(), time.Hour)

	// Solutions fail: both exercises FAIL, nothing may be cached.
	runner := gradeAwareRunner().on("bash setup.sh", remoteFail()).on("ansible-playbook", remoteFail())
	orch := newTestOrchestrator(runner, store, nil)
	results := orch.RunCourse(context.Background(), course, exercises, 2)
	if results.ExercisesFailed != 2 {
		t.Fatalf("expected 2 failed, got %+v", results)
	}

	rerunRunner := gradeAwareRunner()
	rerun := newTestOrchestrator(rerunRunner, store, nil)
	rerun.RunCourse(context.Background(), course, exercises, 2)
	if rerunRunner.ran("lab start") == 0 {
		t.Error("failed exercises must re-execute on the next run")
	}
}

func TestOrchestrator_BugsGetRunUniqueIDs(t *testing.T) {
	course, exercises := courseFixture(t)
	runner := gradeAwareRunner().on("lab finish", remoteFail())
	orch := newTestOrchestrator(runner, nil, nil)

	results := orch.RunCourse(context.Background(), course, exercises, 2)
	if len(results.Bugs) == 0 {
		t.Fatal("expected cleanup bugs")
	}
	seen := make(map[string]bool)
	for _, bug := range results.Bugs {
		if bug.ID == "" {
			t.Error("every aggregated bug needs an id")
		}
		if seen[bug.ID] {
			t.Errorf("duplicate bug id %s", bug.ID)
		}
		seen[bug.ID] = true
	}

	// The same IDs appear on the per-exercise and per-category copies.
	for _, er := range results.Exercises {
		for _, bug := range er.Bugs {
			if !seen[bug.ID] {
				t.Errorf("exercise %s bug id %q not in the course union", er.ExerciseID, bug.ID)
			}
		}
		for _, tr := range er.Categories {
			for _, bug := range tr.Bugs {
				if !seen[bug.ID] {
					t.Errorf("category %s bug id %q not in the course union", tr.Category, bug.ID)
				}
			}
		}
	}
}
