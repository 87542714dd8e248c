package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Course settings
	CourseCode    string
	MaterialsRoot string
	CoursesFile   string

	// Output settings
	OutputDir   string
	ResultsFile string

	// Cache settings
	CacheDir    string
	CacheMaxAge time.Duration

	// Execution settings
	Workers           int
	IdempotencyCycles int
	CommandTimeout    time.Duration

	// Remote host settings
	RemoteHost    string
	RemotePort    int
	RemoteUser    string
	RemotePass    string
	RemoteKeyFile string
	RemoteWorkdir string

	// Web console credentials
	ConsoleUser string
	ConsolePass string

	// Command flags
	Flags Flags
}

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

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		CoursesFile:       DefaultCoursesFile,
		OutputDir:         DefaultOutputDir,
		ResultsFile:       DefaultResultsFile,
		CacheDir:          DefaultCacheDir,
		CacheMaxAge:       DefaultCacheMaxAge,
		Workers:           DefaultWorkers,
		IdempotencyCycles: DefaultIdempotencyCycles,
		CommandTimeout:    DefaultCommandTimeout,
		RemotePort:        DefaultSSHPort,
		RemoteUser:        DefaultRemoteUser,
		RemoteWorkdir:     DefaultRemoteWorkdir,
		Flags:             Flags{Workers: DefaultWorkers},
	}
}

// Load creates a config, reads the environment, and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	// .env might not exist, that's okay - use environment variables
	_ = godotenv.Load(".env")

	if host := os.Getenv("EQA_REMOTE_HOST"); host != "" {
		cfg.RemoteHost = host
	}
	if user := os.Getenv("EQA_REMOTE_USER"); user != "" {
		cfg.RemoteUser = user
	}
	if pass := os.Getenv("EQA_REMOTE_PASSWORD"); pass != "" {
		cfg.RemotePass = pass
	}
	if key := os.Getenv("EQA_REMOTE_KEY"); key != "" {
		cfg.RemoteKeyFile = key
	}
	if courses := os.Getenv("EQA_COURSES_FILE"); courses != "" {
		cfg.CoursesFile = courses
	}
	if user := os.Getenv("EQA_CONSOLE_USER"); user != "" {
		cfg.ConsoleUser = user
	}
	if pass := os.Getenv("EQA_CONSOLE_PASSWORD"); pass != "" {
		cfg.ConsolePass = pass
	}

	// Apply flag overrides
	cfg.CourseCode = flags.Course
	if flags.Materials != "" {
		cfg.MaterialsRoot = flags.Materials
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.Cycles > 0 {
		cfg.IdempotencyCycles = flags.Cycles
	}
	if flags.CacheDir != "" {
		cfg.CacheDir = flags.CacheDir
	}
	if flags.MaxAge > 0 {
		cfg.CacheMaxAge = flags.MaxAge
	}

	return cfg
}

// ResolveMaterials returns the materials root for the configured course,
// consulting the courses mapping file when no explicit root was given.
func (c *Config) ResolveMaterials() (string, error) {
	if c.MaterialsRoot != "" {
		return c.MaterialsRoot, nil
	}
	if c.CourseCode == "" {
		return "", fmt.Errorf("either a course code or a materials directory is required")
	}
	courses, err := LoadCourses(c.CoursesFile)
	if err != nil {
		return "", err
	}
	root, ok := courses[c.CourseCode]
	if !ok {
		return "", fmt.Errorf("course %s not found in %s", c.CourseCode, c.CoursesFile)
	}
	return root, nil
}

// GetResultsPath returns the full path to the latest-results JSON file.
// Resolves to an absolute path so run and bugs always read/write the same
// file regardless of cwd.
func (c *Config) GetResultsPath() string {
	p := filepath.Join(c.OutputDir, c.ResultsFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetRunPath returns the output path for one run's results file.
func (c *Config) GetRunPath(runID string) string {
	p := filepath.Join(c.OutputDir, fmt.Sprintf("run-%s.json", runID))
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetDSN returns the MySQL DSN for the run history archive, or "" when the
// archive is not configured.
func (c *Config) GetDSN() string {
	if dsn := os.Getenv("EQA_HISTORY_DSN"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USERNAME")
	if user == "" {
		user = "root"
	}
	name := os.Getenv("DB_DATABASE")
	if name == "" {
		name = "eqa_history"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, os.Getenv("DB_PASSWORD"), host, port, name)
}
