package ui

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/metrics"
	"github.com/eparenti/eqa-sub002/internal/workflow"
)

// Formatter formats and displays course output
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintSummary displays the course run statistics, the quality score
// breakdown, and a chapter tree of failing exercises.
func (f *Formatter) PrintSummary(results *domain.CourseTestResults, budgets metrics.Budgets) {
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Course Test Statistics                     ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Course")
	color.White("%-27s │\n", results.CourseCode)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Exercises Tested")
	color.White("%-27s │\n", fmt.Sprintf("%d / %d", results.ExercisesTested, results.TotalExercises))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Passed")
	color.Green("%-27d │\n", results.ExercisesPassed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Failed")
	color.Red("%-27d │\n", results.ExercisesFailed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Bugs Found")
	color.Red("%-27d │\n", len(results.Bugs))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │\n", fmt.Sprintf("%.2fs", results.DurationSeconds))

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	f.printScore(results)
	f.printBudgetViolations(results, budgets)

	fmt.Println()
	if !results.AllExercisesTested {
		color.Yellow("⚠ Only %d of %d exercises were tested - results are partial", results.ExercisesTested, results.TotalExercises)
	}
	if results.ExercisesFailed == 0 && results.AllExercisesTested {
		color.Green("✓ All exercises passed!")
	} else if results.ExercisesFailed > 0 {
		color.Red("✗ %d exercise(s) failed with %d bug(s)", results.ExercisesFailed, len(results.Bugs))
		fmt.Println()
		f.printFailedExercisesTree(results.Exercises)
	}
}

func (f *Formatter) printScore(results *domain.CourseTestResults) {
	score := metrics.QualityScore(results.Exercises, results.TotalExercises, results.Bugs)

	fmt.Println()
	color.Cyan("Quality score")
	fmt.Printf("  Coverage:    %s\n", scoreColor(score.Coverage, metrics.CoverageWeight))
	fmt.Printf("  Defects:     %s\n", scoreColor(score.Defects, metrics.DefectsWeight))
	fmt.Printf("  Reliability: %s\n", scoreColor(score.Reliability, metrics.ReliabilityWeight))
	fmt.Printf("  Total:       %s\n", scoreColor(score.Total, 100))
}

func scoreColor(value, max int) string {
	s := fmt.Sprintf("%d / %d", value, max)
	switch {
	case value >= max*8/10:
		return color.GreenString(s)
	case value >= max/2:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func (f *Formatter) printBudgetViolations(results *domain.CourseTestResults, budgets metrics.Budgets) {
	violations := metrics.CheckBudgets(results.Exercises, budgets)
	if len(violations) == 0 {
		return
	}
	fmt.Println()
	color.Yellow("Time budget violations")
	for _, v := range violations {
		color.Yellow("  %s: %s took %.1fs (budget %.0fs, over by %.1fs)", v.ExerciseID, v.Phase, v.Actual, v.Budget, v.OverBy)
	}
}

// printFailedExercisesTree prints failing exercises grouped by chapter, with
// their bugs as leaves.
func (f *Formatter) printFailedExercisesTree(exercises []domain.ExerciseTestResults) {
	failed := make([]domain.ExerciseTestResults, 0, len(exercises))
	for _, er := range exercises {
		if er.Status == domain.StatusFail || er.Status == domain.StatusError {
			failed = append(failed, er)
		}
	}
	if len(failed) == 0 {
		return
	}

	for i, er := range failed {
		isLast := i == len(failed)-1
		marker := "├── "
		childPrefix := "│   "
		if isLast {
			marker = "└── "
			childPrefix = "    "
		}
		color.Cyan("%s%s (%s)", marker, er.ExerciseID, er.Status)
		for j, bug := range er.Bugs {
			bugMarker := "├── "
			if j == len(er.Bugs)-1 {
				bugMarker = "└── "
			}
			color.Red("%s%s[%s] %s", childPrefix, bugMarker, bug.Severity, bug.Description)
		}
	}
}

// PrintExerciseList prints the detected exercises as a chapter tree,
// optionally with their instruction steps.
func (f *Formatter) PrintExerciseList(exercises []domain.Exercise, showSteps bool) {
	color.Green("Found %d exercise(s):\n", len(exercises))

	// Group by chapter, keep chapter order stable
	chapters := make(map[int][]domain.Exercise)
	var numbers []int
	for _, ex := range exercises {
		if _, seen := chapters[ex.ChapterNumber]; !seen {
			numbers = append(numbers, ex.ChapterNumber)
		}
		chapters[ex.ChapterNumber] = append(chapters[ex.ChapterNumber], ex)
	}
	sort.Ints(numbers)

	for ci, n := range numbers {
		isLastChapter := ci == len(numbers)-1
		chapterMarker := "├── "
		childPrefix := "│   "
		if isLastChapter {
			chapterMarker = "└── "
			childPrefix = "    "
		}
		title := chapters[n][0].ChapterTitle
		if title == "" {
			title = fmt.Sprintf("chapter %d", n)
		}
		color.Cyan("%s%s", chapterMarker, title)

		for ei, ex := range chapters[n] {
			isLastEx := ei == len(chapters[n])-1
			exMarker := "├── "
			stepPrefix := childPrefix + "│   "
			if isLastEx {
				exMarker = "└── "
				stepPrefix = childPrefix + "    "
			}

			markers := ""
			if ex.HasSolutions() {
				markers += " " + color.GreenString("[sol]")
			}
			if ex.HasGrading() {
				markers += " " + color.GreenString("[grade]")
			}
			fmt.Printf("%s%s%s (%s)%s\n", childPrefix, exMarker, color.YellowString(ex.ID), ex.Kind, markers)

			if showSteps {
				f.printSteps(ex, stepPrefix)
			}
		}
	}
}

func (f *Formatter) printSteps(ex domain.Exercise, prefix string) {
	wf, err := workflow.LoadDir(ex.MaterialsDir)
	if err != nil {
		color.Red("%s└── (steps file unreadable: %v)", prefix, err)
		return
	}
	if wf == nil || len(wf.Steps) == 0 {
		return
	}
	for i, step := range wf.Steps {
		marker := "├── "
		if i == len(wf.Steps)-1 {
			marker = "└── "
		}
		fmt.Printf("%s%s%d. %s\n", prefix, marker, step.Ordinal, step.Description)
	}
}
