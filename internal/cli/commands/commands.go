package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/cli"
	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/discovery"
	"github.com/eparenti/eqa-sub002/internal/storage"
	"github.com/eparenti/eqa-sub002/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Bugs    *BugsCommand
	Cache   *CacheCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(config.DefaultSkipDirs)
	filter := discovery.NewFilter()
	classifier := discovery.NewClassifier()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter()
	bugViewer := ui.NewBugViewer(jsonStorage)

	return &Commands{
		Run:     NewRunCommand(cfg, scanner, filter, classifier, jsonStorage, formatter, bugViewer),
		List:    NewListCommand(cfg, scanner, filter, classifier, formatter),
		Bugs:    NewBugsCommand(cfg, jsonStorage, bugViewer),
		Cache:   NewCacheCommand(cfg),
		History: NewHistoryCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		*cfg = *config.Load(flags.ToConfigFlags())
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Test every exercise of a course",
		Long:    "Detect course exercises and run all applicable test categories against each one, producing a bug report and quality score",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVarP(&flags.Course, "course", "c", "", "Course code to test (resolved through the courses file)")
	runCmd.Flags().StringVarP(&flags.Materials, "materials", "m", "", "Course materials directory (overrides the courses file)")
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "w", config.DefaultWorkers, "Number of parallel workers")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter exercises by name pattern (supports wildcards, e.g. 'intro-*' or '*lab*')")
	runCmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Ignore cached results and re-test everything")
	runCmd.Flags().IntVar(&flags.Cycles, "cycles", config.DefaultIdempotencyCycles, "Number of idempotency replay cycles")
	runCmd.Flags().BoolVar(&flags.SelfTest, "self-test", false, "Run the lab framework self-test category")
	runCmd.Flags().BoolVar(&flags.JUnit, "junit", false, "Write a JUnit XML report next to the results JSON")
	runCmd.Flags().BoolVar(&flags.CSV, "csv", false, "Write a CSV report next to the results JSON")
	runCmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Skip archiving the run to the history database")
	runCmd.Flags().BoolVar(&flags.OpenBugs, "open-bugs", false, "Open the bugs viewer when the run finishes with bugs")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List detected exercises",
		Long:    "Scan the course materials and list all detected exercises without testing them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.Course, "course", "c", "", "Course code to list (resolved through the courses file)")
	listCmd.Flags().StringVarP(&flags.Materials, "materials", "m", "", "Course materials directory (overrides the courses file)")
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter exercises by name pattern (supports wildcards, e.g. 'intro-*' or '*lab*')")
	listCmd.Flags().BoolVarP(&flags.Steps, "steps", "s", false, "Show the instruction steps of each exercise")
	rootCmd.AddCommand(listCmd)

	// Bugs command
	bugsCmd := &cobra.Command{
		Use:     "bugs",
		Short:   "View found bugs interactively",
		Long:    "Display the bugs from the last course run in an interactive viewer",
		RunE:    c.Bugs.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(bugsCmd)

	// Cache command
	cacheCmd := &cobra.Command{
		Use:       "cache [stats|clear|prune]",
		Short:     "Inspect or trim the result cache",
		Long:      "Show cache statistics, remove stale entries, or clear the cache entirely",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"stats", "clear", "prune"},
		RunE:      c.Cache.Execute,
		PreRunE:   applyFlags,
	}
	cacheCmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "", "Cache directory")
	cacheCmd.Flags().DurationVar(&flags.MaxAge, "max-age", time.Duration(0), "Cache entry lifetime (e.g. 24h)")
	rootCmd.AddCommand(cacheCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history [init|prune]",
		Short:   "Manage the run history archive",
		Long:    "Ensure or trim the MySQL run archive; does nothing when no database is configured",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.History.Execute,
		PreRunE: applyFlags,
	}
	historyCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.AddCommand(historyCmd)
}
