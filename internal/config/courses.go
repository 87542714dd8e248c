package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// coursesFile is the on-disk shape of the course mapping.
type coursesFile struct {
	Courses map[string]string `yaml:"courses"`
}

// LoadCourses reads the course-to-materials mapping. A missing or invalid
// mapping file is a hard error: without it course codes cannot be resolved.
func LoadCourses(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courses file %s: %w", path, err)
	}
	var f coursesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse courses file %s: %w", path, err)
	}
	if len(f.Courses) == 0 {
		return nil, fmt.Errorf("courses file %s maps no courses", path)
	}
	return f.Courses, nil
}
