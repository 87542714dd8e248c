package execution

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// Options carries the knobs shared by the category executors.
type Options struct {
	// CommandTimeout bounds every remote command.
	CommandTimeout time.Duration
	// RemoteWorkdir is the directory on the workstation solutions are
	// copied into, one subdirectory per exercise.
	RemoteWorkdir string
	// IdempotencyCycles is how many times the automation is re-applied.
	IdempotencyCycles int
	// PlaybookCommand runs a playbook-style solution file.
	PlaybookCommand string
	// ConsoleURLCommand prints the web console URL on the workstation.
	ConsoleURLCommand string
	// FrameworkProbeCommand checks whether the lab framework is installed.
	FrameworkProbeCommand string
	// SelfTestCommand runs the framework's built-in self-test.
	SelfTestCommand string
	// SelfTestEnabled gates the framework self-test category.
	SelfTestEnabled bool
}

// DefaultOptions returns the stock executor options.
func DefaultOptions() Options {
	return Options{
		CommandTimeout:        5 * time.Minute,
		RemoteWorkdir:         "/home/student",
		IdempotencyCycles:     3,
		PlaybookCommand:       "ansible-playbook",
		ConsoleURLCommand:     "oc whoami --show-console",
		FrameworkProbeCommand: "lab --version",
		SelfTestCommand:       "lab selftest",
	}
}

// PrereqExecutor runs the exercise's start lifecycle command. It gates the
// whole exercise: nothing else runs when it fails.
type PrereqExecutor struct {
	opts Options
}

// NewPrereqExecutor creates a PrereqExecutor.
func NewPrereqExecutor(opts Options) *PrereqExecutor {
	return &PrereqExecutor{opts: opts}
}

func (e *PrereqExecutor) Category() domain.Category { return domain.CategoryPrereq }

func (e *PrereqExecutor) Applicable(ex domain.Exercise) bool { return true }

// Test runs `lab start`. An unreachable channel is a transport error, not a
// bug: the error message is set and the exercise executor maps it to ERROR.
func (e *PrereqExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	if !runner.TestConnection() {
		return domain.TestResult{
			Passed:       false,
			ErrorMessage: "cannot connect to the lab workstation",
			Details:      map[string]any{"transport_error": true},
		}
	}

	result := runner.Run(ctx, fmt.Sprintf("lab start %s", ex.ID), e.opts.CommandTimeout)
	tr := domain.TestResult{
		Passed: result.Success,
		Details: map[string]any{
			"command":     fmt.Sprintf("lab start %s", ex.ID),
			"return_code": result.ReturnCode,
		},
	}
	if !result.Success {
		tr.Bugs = []domain.Bug{{
			Severity:       domain.SeverityP0,
			ExerciseID:     ex.ID,
			Description:    fmt.Sprintf("lab start %s exited %d: %s", ex.ID, result.ReturnCode, excerpt(result.Combined(), 500)),
			Recommendation: "fix the start lifecycle script; no exercise content can be validated until it succeeds",
		}}
	}
	return tr
}

// CleanupExecutor runs the finish lifecycle command. It checks the exit
// status only, not actual artifact removal.
type CleanupExecutor struct {
	opts Options
}

// NewCleanupExecutor creates a CleanupExecutor.
func NewCleanupExecutor(opts Options) *CleanupExecutor {
	return &CleanupExecutor{opts: opts}
}

func (e *CleanupExecutor) Category() domain.Category { return domain.CategoryCleanup }

func (e *CleanupExecutor) Applicable(ex domain.Exercise) bool { return true }

func (e *CleanupExecutor) Test(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner) domain.TestResult {
	result := runner.Run(ctx, fmt.Sprintf("lab finish %s", ex.ID), e.opts.CommandTimeout)
	tr := domain.TestResult{
		Passed: result.Success,
		Details: map[string]any{
			"command":     fmt.Sprintf("lab finish %s", ex.ID),
			"return_code": result.ReturnCode,
		},
	}
	if !result.Success {
		tr.Bugs = []domain.Bug{{
			Severity:       domain.SeverityP1,
			ExerciseID:     ex.ID,
			Description:    fmt.Sprintf("lab finish %s exited %d: %s", ex.ID, result.ReturnCode, excerpt(result.Combined(), 500)),
			Recommendation: "fix the finish lifecycle script so the environment resets between exercises",
		}}
	}
	return tr
}

// solutionApplication is the per-file outcome of applying one solution.
type solutionApplication struct {
	File       string
	RemotePath string
	Executed   bool
	Success    bool
	Output     string
}

// applySolutions copies each .sol file to the exercise workdir stripped of
// the extension and executes it according to the real extension underneath:
// yml/yaml through the playbook command, sh through bash, anything else is
// copy-only.
func applySolutions(ctx context.Context, ex domain.Exercise, runner remote.CommandRunner, opts Options) []solutionApplication {
	apps := make([]solutionApplication, 0, len(ex.SolutionFiles))
	for _, sol := range ex.SolutionFiles {
		name := strings.TrimSuffix(filepath.Base(sol), ".sol")
		remotePath := path.Join(opts.RemoteWorkdir, ex.ID, name)
		app := solutionApplication{File: sol, RemotePath: remotePath}

		if cp := runner.CopyFile(sol, remotePath); !cp.Success {
			app.Output = cp.Stderr
			apps = append(apps, app)
			continue
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".yml", ".yaml":
			result := runner.Run(ctx, fmt.Sprintf("cd %s && %s %s", path.Join(opts.RemoteWorkdir, ex.ID), opts.PlaybookCommand, name), opts.CommandTimeout)
			app.Executed = true
			app.Success = result.Success
			app.Output = result.Combined()
		case ".sh":
			result := runner.Run(ctx, fmt.Sprintf("cd %s && bash %s", path.Join(opts.RemoteWorkdir, ex.ID), name), opts.CommandTimeout)
			app.Executed = true
			app.Success = result.Success
			app.Output = result.Combined()
		default:
			// Copy-only artifact, e.g. a config file the grading checks.
			app.Success = true
		}
		apps = append(apps, app)
	}
	return apps
}

// excerpt truncates tool output so synthesized bug reports stay bounded.
// Cuts on a rune boundary: tool output carries multi-byte marks like ✓.
func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
