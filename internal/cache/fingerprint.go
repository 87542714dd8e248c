package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Fingerprint derives the cache key for an exercise: a SHA-256 over the
// exercise id, the content root, and the (relative path, mtime) pairs of
// every solution and grading file. Mtime-based, not content-based; cheap,
// trusts the filesystem clock.
func Fingerprint(ex domain.Exercise, contentRoot string) (string, error) {
	files := append([]string{}, ex.SolutionFiles...)
	if ex.GradingScript != "" {
		files = append(files, ex.GradingScript)
	}
	sort.Strings(files)

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", ex.ID, contentRoot)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", file, err)
		}
		rel := file
		if r, err := filepath.Rel(contentRoot, file); err == nil {
			rel = r
		}
		fmt.Fprintf(h, "%s\x00%d\x00", rel, info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
