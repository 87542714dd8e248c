package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters exercise directories by name pattern.
type Filter struct{}

// NewFilter creates a new Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters exercise paths by directory-name pattern using
// wildcard matching. Supports patterns like "net-*" or "*review*".
func (f *Filter) FilterByName(exercises []string, pattern string) []string {
	if pattern == "" {
		return exercises
	}

	var filtered []string
	for _, exercise := range exercises {
		name := filepath.Base(exercise)

		matched, err := filepath.Match(pattern, name)
		if err == nil && matched {
			filtered = append(filtered, exercise)
			continue
		}

		// Fall back to substring matching on the non-wildcard parts, so
		// "*review*" style patterns work even when filepath.Match balks.
		if strings.Contains(pattern, "*") {
			allPartsMatch := true
			hasNonEmptyPart := false
			for _, part := range strings.Split(pattern, "*") {
				if part == "" {
					continue
				}
				hasNonEmptyPart = true
				if !strings.Contains(name, part) {
					allPartsMatch = false
					break
				}
			}
			if allPartsMatch && hasNonEmptyPart {
				filtered = append(filtered, exercise)
			}
			continue
		}

		if !strings.Contains(pattern, "?") && strings.Contains(name, pattern) {
			filtered = append(filtered, exercise)
		}
	}

	return filtered
}
