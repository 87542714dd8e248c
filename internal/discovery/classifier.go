package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Classifier turns an exercise directory into a domain.Exercise snapshot.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

var chapterDirPattern = regexp.MustCompile(`^ch(?:apter)?(\d+)(?:[-_](.+))?$`)

// Classify inspects an exercise directory and builds its immutable
// snapshot. The directory name is the exercise id; the parent directory
// carries the chapter, using the chN-title convention.
func (c *Classifier) Classify(dir string) (domain.Exercise, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("exercise dir does not exist: %s", dir)
	}
	if !info.IsDir() {
		return domain.Exercise{}, fmt.Errorf("exercise path is not a directory: %s", dir)
	}

	id := filepath.Base(dir)
	ex := domain.Exercise{
		ID:           id,
		Kind:         domain.KindGuidedExercise,
		Title:        titleFromID(id),
		MaterialsDir: dir,
	}

	// Chapter from the parent directory name.
	parent := filepath.Base(filepath.Dir(dir))
	if m := chapterDirPattern.FindStringSubmatch(parent); m != nil {
		fmt.Sscanf(m[1], "%d", &ex.ChapterNumber)
		ex.ChapterTitle = strings.ReplaceAll(m[2], "-", " ")
		ex.LessonCode = parent
	}

	// Solution files.
	solutions, err := filepath.Glob(filepath.Join(dir, "solutions", "*.sol"))
	if err == nil && len(solutions) > 0 {
		sort.Strings(solutions)
		ex.SolutionFiles = solutions
	}

	// Grading script. Grading makes the exercise a lab.
	grading, _ := filepath.Glob(filepath.Join(dir, "grading.*"))
	if len(grading) > 0 {
		sort.Strings(grading)
		ex.GradingScript = grading[0]
		ex.Kind = domain.KindLab
	}
	if strings.HasSuffix(id, "-lab") || strings.HasSuffix(id, "-review") {
		ex.Kind = domain.KindLab
	}

	// Free-text instructions, when the extraction kept them.
	if data, err := os.ReadFile(filepath.Join(dir, "instructions.txt")); err == nil {
		ex.Instructions = string(data)
	}

	return ex, nil
}

// ClassifyAll classifies every directory, keeping going past individual
// failures so one broken directory does not hide the rest of the course.
func (c *Classifier) ClassifyAll(dirs []string) ([]domain.Exercise, []error) {
	var exercises []domain.Exercise
	var errs []error
	for _, dir := range dirs {
		ex, err := c.Classify(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises, errs
}

// titleFromID turns "net-review" into "Net Review".
func titleFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
