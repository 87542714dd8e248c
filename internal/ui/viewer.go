package ui

import "github.com/eparenti/eqa-sub002/internal/domain"

// Viewer displays course results in an interactive TUI
type Viewer interface {
	View(results *domain.CourseTestResults) error
}
