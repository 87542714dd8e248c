package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/history"
	"github.com/eparenti/eqa-sub002/internal/logging"
)

// historyPruneDays is how far back runs are kept on prune.
const historyPruneDays = 90

// HistoryCommand handles the history command
type HistoryCommand struct {
	config *config.Config
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{config: cfg}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	log := logging.New(hc.config.Flags.Verbose)
	defer log.Sync()

	archive, err := history.Open(hc.config.GetDSN(), log)
	if err != nil {
		return err
	}
	if archive == nil {
		color.Yellow("No history database configured")
		return nil
	}
	defer archive.Close()

	action := "init"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "init":
		if err := archive.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		color.Green("✓ History schema is up to date")
		return nil
	case "prune":
		removed, err := archive.Prune(cmd.Context(), historyPruneDays)
		if err != nil {
			return err
		}
		color.Green("✓ Pruned %d run(s) older than %d days", removed, historyPruneDays)
		return nil
	default:
		return fmt.Errorf("unknown history action: %s", action)
	}
}
