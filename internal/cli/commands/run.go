package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eparenti/eqa-sub002/internal/cache"
	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/discovery"
	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/execution"
	"github.com/eparenti/eqa-sub002/internal/history"
	"github.com/eparenti/eqa-sub002/internal/logging"
	"github.com/eparenti/eqa-sub002/internal/metrics"
	"github.com/eparenti/eqa-sub002/internal/remote"
	"github.com/eparenti/eqa-sub002/internal/report"
	"github.com/eparenti/eqa-sub002/internal/storage"
	"github.com/eparenti/eqa-sub002/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config     *config.Config
	scanner    *discovery.Scanner
	filter     *discovery.Filter
	classifier *discovery.Classifier
	storage    storage.Storage
	formatter  *ui.Formatter
	bugViewer  *ui.BugViewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	classifier *discovery.Classifier,
	st storage.Storage,
	formatter *ui.Formatter,
	bugViewer *ui.BugViewer,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		scanner:    scanner,
		filter:     filter,
		classifier: classifier,
		storage:    st,
		formatter:  formatter,
		bugViewer:  bugViewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	log := logging.New(rc.config.Flags.Verbose)
	defer log.Sync()

	materials, err := rc.config.ResolveMaterials()
	if err != nil {
		return err
	}

	// Discover exercises. The pre-filter count is the coverage baseline.
	dirs, err := rc.scanner.Scan(materials)
	if err != nil {
		return err
	}
	total := len(dirs)
	dirs = rc.filter.FilterByName(dirs, rc.config.Flags.Filter)

	exercises, classifyErrs := rc.classifier.ClassifyAll(dirs)
	for _, cerr := range classifyErrs {
		log.Warnw("exercise skipped", "error", cerr)
	}

	if len(exercises) == 0 {
		color.Yellow("No exercises to test")
		return nil
	}

	pool, err := rc.buildPool(log)
	if err != nil {
		return fmt.Errorf("connect to lab environment: %w", err)
	}
	defer pool.CloseAll()

	opts := execution.DefaultOptions()
	opts.CommandTimeout = rc.config.CommandTimeout
	opts.RemoteWorkdir = rc.config.RemoteWorkdir
	opts.IdempotencyCycles = rc.config.IdempotencyCycles
	opts.SelfTestEnabled = rc.config.Flags.SelfTest

	executors := []execution.CategoryExecutor{
		execution.NewPrereqExecutor(opts),
		execution.NewSolutionExecutor(opts),
		execution.NewIdempotencyExecutor(opts),
		execution.NewWorkflowExecutor(opts),
		execution.NewWebUIExecutor(opts, nil, rc.config.ConsoleUser, rc.config.ConsolePass),
		execution.NewFrameworkExecutor(opts),
		execution.NewGradingExecutor(opts),
		execution.NewCleanupExecutor(opts),
	}
	parallel := execution.NewParallelExecutor(rc.config.Workers)
	executor := execution.NewExerciseExecutor(executors, parallel, pool, log)

	var store *cache.Store
	if !rc.config.Flags.NoCache {
		store = cache.NewStore(rc.config.CacheDir, rc.config.CacheMaxAge)
	}

	budgets := metrics.DefaultBudgets()
	if _, err := os.Stat(config.DefaultBudgetsFile); err == nil {
		budgets, err = metrics.LoadBudgets(config.DefaultBudgetsFile)
		if err != nil {
			return err
		}
	}

	progressBar := ui.NewProgressBar(len(exercises))
	orchestrator := execution.NewOrchestrator(executor, store, budgets, progressBar, log)

	course := domain.CourseContext{
		CourseCode:    rc.config.CourseCode,
		MaterialsRoot: materials,
	}
	results := orchestrator.RunCourse(cmd.Context(), course, exercises, total)

	if err := rc.storage.Save(&results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if err := rc.writeReports(&results); err != nil {
		return err
	}
	rc.archiveRun(cmd, &results, log)

	rc.formatter.PrintSummary(&results, budgets)

	if rc.config.Flags.OpenBugs && len(results.Bugs) > 0 {
		return rc.bugViewer.View(&results)
	}
	return nil
}

// buildPool connects the worker pool, over SSH when a remote host is
// configured and against the local shell otherwise.
func (rc *RunCommand) buildPool(log *zap.SugaredLogger) (*remote.Pool, error) {
	cfg := rc.config
	if cfg.RemoteHost == "" {
		log.Debugw("no remote host configured, running locally")
		return remote.NewPool(cfg.Workers, func() (remote.CommandRunner, error) {
			return remote.NewLocalRunner("", cfg.CommandTimeout), nil
		})
	}

	sshCfg := remote.SSHConfig{
		Host:     cfg.RemoteHost,
		Port:     cfg.RemotePort,
		User:     cfg.RemoteUser,
		Password: cfg.RemotePass,
		KeyFile:  cfg.RemoteKeyFile,
	}
	return remote.NewPool(cfg.Workers, func() (remote.CommandRunner, error) {
		return remote.DialSSH(sshCfg, cfg.CommandTimeout)
	})
}

func (rc *RunCommand) writeReports(results *domain.CourseTestResults) error {
	if rc.config.Flags.JUnit {
		path := filepath.Join(rc.config.OutputDir, fmt.Sprintf("run-%s.xml", results.RunID))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create junit report: %w", err)
		}
		defer f.Close()
		if err := report.WriteJUnit(f, *results); err != nil {
			return err
		}
	}
	if rc.config.Flags.CSV {
		path := filepath.Join(rc.config.OutputDir, fmt.Sprintf("run-%s.csv", results.RunID))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create csv report: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, *results); err != nil {
			return err
		}
	}
	return nil
}

// archiveRun records the run in the history database. Archive problems are
// logged, never fatal.
func (rc *RunCommand) archiveRun(cmd *cobra.Command, results *domain.CourseTestResults, log *zap.SugaredLogger) {
	if rc.config.Flags.NoHistory {
		return
	}
	archive, err := history.Open(rc.config.GetDSN(), log)
	if err != nil {
		log.Warnw("history archive unavailable", "error", err)
		return
	}
	if archive == nil {
		return
	}
	defer archive.Close()
	if err := archive.EnsureSchema(cmd.Context()); err != nil {
		log.Warnw("history schema check failed", "error", err)
		return
	}
	if err := archive.RecordRun(cmd.Context(), results); err != nil {
		log.Warnw("history insert failed", "error", err)
	}
}
