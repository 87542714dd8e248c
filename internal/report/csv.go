package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

var csvHeader = []string{"index", "exercise_id", "category", "passed", "bug_count", "duration_seconds", "min_severity"}

// WriteCSV renders one row per (exercise, category) pair, in report order.
func WriteCSV(w io.Writer, results domain.CourseTestResults) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	index := 0
	for _, er := range results.Exercises {
		for _, tr := range er.Categories {
			index++
			passed := "0"
			if tr.Passed {
				passed = "1"
			}
			row := []string{
				fmt.Sprintf("%d", index),
				er.ExerciseID,
				string(tr.Category),
				passed,
				fmt.Sprintf("%d", len(tr.Bugs)),
				fmt.Sprintf("%.3f", tr.DurationSeconds),
				domain.MostSevere(tr.Bugs),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row for %s: %w", er.ExerciseID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
