package cli

import (
	"time"

	"github.com/eparenti/eqa-sub002/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Course    string
	Materials string
	Workers   int
	Filter    string
	NoCache   bool
	Cycles    int
	SelfTest  bool
	JUnit     bool
	CSV       bool
	NoHistory bool
	OpenBugs  bool
	Verbose   bool
	Steps     bool
	CacheDir  string
	MaxAge    time.Duration
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Course:    f.Course,
		Materials: f.Materials,
		Workers:   f.Workers,
		Filter:    f.Filter,
		NoCache:   f.NoCache,
		Cycles:    f.Cycles,
		SelfTest:  f.SelfTest,
		JUnit:     f.JUnit,
		CSV:       f.CSV,
		NoHistory: f.NoHistory,
		OpenBugs:  f.OpenBugs,
		Verbose:   f.Verbose,
		Steps:     f.Steps,
		CacheDir:  f.CacheDir,
		MaxAge:    f.MaxAge,
	}
}
