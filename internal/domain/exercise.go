package domain

// Kind classifies an exercise within a course
type Kind string

const (
	// KindGuidedExercise is a follow-along exercise without grading
	KindGuidedExercise Kind = "guided-exercise"
	// KindLab is a gradable end-of-chapter lab
	KindLab Kind = "lab"
)

// Exercise is an immutable snapshot of one gradable unit of course content.
// MaterialsDir is owned by the detecting collaborator and referenced, not copied.
type Exercise struct {
	ID            string   `json:"id"`
	Kind          Kind     `json:"kind"`
	LessonCode    string   `json:"lesson_code"`
	ChapterNumber int      `json:"chapter_number"`
	ChapterTitle  string   `json:"chapter_title,omitempty"`
	Title         string   `json:"title"`
	MaterialsDir  string   `json:"materials_dir"`
	SolutionFiles []string `json:"solution_files,omitempty"`
	GradingScript string   `json:"grading_script,omitempty"`
	Instructions  string   `json:"instructions,omitempty"`
}

// HasGrading reports whether the exercise ships a grading script
func (e Exercise) HasGrading() bool {
	return e.GradingScript != ""
}

// HasSolutions reports whether the exercise ships solution files
func (e Exercise) HasSolutions() bool {
	return len(e.SolutionFiles) > 0
}
