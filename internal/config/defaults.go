package config

import "time"

const (
	// DefaultCoursesFile is the default course-to-materials mapping file
	DefaultCoursesFile = "courses.yaml"
	// DefaultOutputDir is the default directory for results and reports
	DefaultOutputDir = "qa-results"
	// DefaultResultsFile is the default latest-results file name
	DefaultResultsFile = "latest.json"
	// DefaultCacheDir is the default result cache directory
	DefaultCacheDir = ".eqa-cache"
	// DefaultCacheMaxAge is the default cache entry lifetime
	DefaultCacheMaxAge = 24 * time.Hour
	// DefaultWorkers is the default number of parallel workers
	DefaultWorkers = 4
	// DefaultIdempotencyCycles is the default solution replay count
	DefaultIdempotencyCycles = 3
	// DefaultCommandTimeout is the default per-command timeout
	DefaultCommandTimeout = 5 * time.Minute
	// DefaultSSHPort is the default remote SSH port
	DefaultSSHPort = 22
	// DefaultRemoteUser is the default remote login user
	DefaultRemoteUser = "student"
	// DefaultRemoteWorkdir is the directory solutions are copied under
	DefaultRemoteWorkdir = "/home/student"
	// DefaultBudgetsFile is the optional per-phase time budgets file
	DefaultBudgetsFile = "budgets.yaml"
)

// DefaultSkipDirs are directories never scanned for exercises
var DefaultSkipDirs = []string{
	"node_modules",
	"venv",
	".venv",
	"__pycache__",
	"images",
}
