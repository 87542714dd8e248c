package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/cli"
	"github.com/eparenti/eqa-sub002/internal/cli/commands"
	"github.com/eparenti/eqa-sub002/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "eqa",
		Short:   "Course exercise QA harness",
		Long:    `An automated QA harness for e-learning course exercises. Runs every exercise of a course through its lifecycle, solutions, grading, and workflow checks, and reports the bugs it finds.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
