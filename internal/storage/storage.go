package storage

import (
	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Storage persists and loads course run results (e.g. for the bugs viewer).
type Storage interface {
	Save(results *domain.CourseTestResults) error
	Load() (*domain.CourseTestResults, error)
	// SaveLatest rewrites the latest results in place (e.g. after triage updates).
	SaveLatest(results *domain.CourseTestResults) error
}

// JSONStorage stores results as JSON files under the configured output dir.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output paths.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
