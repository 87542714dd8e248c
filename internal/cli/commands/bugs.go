package commands

import (
	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/storage"
	"github.com/eparenti/eqa-sub002/internal/ui"
)

// BugsCommand handles the bugs command
type BugsCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  *ui.BugViewer
}

// NewBugsCommand creates a new BugsCommand
func NewBugsCommand(cfg *config.Config, st storage.Storage, viewer *ui.BugViewer) *BugsCommand {
	return &BugsCommand{
		config:  cfg,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (bc *BugsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := bc.storage.Load()
	if err != nil {
		return err
	}
	return bc.viewer.View(results)
}
