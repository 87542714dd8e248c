package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Task is one schedulable unit: a category executor bound to its exercise.
type Task struct {
	Category   domain.Category
	ExerciseID string
	Run        func() domain.TestResult
}

// ParallelExecutor runs independent tasks concurrently, bounded by a fixed
// worker count, and collects results as they complete.
type ParallelExecutor struct {
	workers int
}

// NewParallelExecutor creates a ParallelExecutor with the given worker
// limit.
func NewParallelExecutor(workers int) *ParallelExecutor {
	if workers <= 0 {
		workers = 1
	}
	return &ParallelExecutor{workers: workers}
}

// Execute runs the batch. A task that panics becomes a synthetic failing
// TestResult carrying the panic text; one bad task never kills siblings.
// Context cancellation stops scheduling new tasks; in-flight tasks run to
// completion so the remote environment is never left half-mutated. Results
// arrive in completion order; callers key on category and exercise id.
func (p *ParallelExecutor) Execute(ctx context.Context, tasks []Task) []domain.TestResult {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task, len(tasks))
	results := make(chan domain.TestResult, len(tasks))
	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				select {
				case <-ctx.Done():
					results <- domain.TestResult{
						Category:     task.Category,
						ExerciseID:   task.ExerciseID,
						Passed:       false,
						Timestamp:    time.Now().UTC().Format(time.RFC3339),
						ErrorMessage: "cancelled before execution",
					}
					continue
				default:
				}
				results <- runTask(task)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]domain.TestResult, 0, len(tasks))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

// runTask isolates one task behind a recover so a panic surfaces as a
// synthetic failure instead of tearing down the batch.
func runTask(task Task) (result domain.TestResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.TestResult{
				Category:     task.Category,
				ExerciseID:   task.ExerciseID,
				Passed:       false,
				Timestamp:    time.Now().UTC().Format(time.RFC3339),
				ErrorMessage: fmt.Sprintf("task panic: %v", r),
			}
		}
	}()
	return task.Run()
}
