package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner finds exercise directories under a course materials root.
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip.
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// isExerciseDir reports whether a directory is an exercise: it holds
// extracted steps, solution files, or a grading script.
func isExerciseDir(path string) bool {
	if _, err := os.Stat(filepath.Join(path, "steps.yaml")); err == nil {
		return true
	}
	if info, err := os.Stat(filepath.Join(path, "solutions")); err == nil && info.IsDir() {
		return true
	}
	matches, _ := filepath.Glob(filepath.Join(path, "grading.*"))
	return len(matches) > 0
}

// Scan finds all exercise directories under the given root.
func (s *Scanner) Scan(root string) ([]string, error) {
	var exercises []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("materials path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("materials path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return filepath.SkipDir
		}
		if s.skipDirs[name] {
			return filepath.SkipDir
		}

		if path != root && isExerciseDir(path) {
			exercises = append(exercises, path)
			// An exercise never nests another exercise; skipping keeps
			// solutions/ from being rescanned.
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(exercises)
	return exercises, nil
}
