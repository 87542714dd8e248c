package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/cache"
	"github.com/eparenti/eqa-sub002/internal/config"
)

// CacheCommand handles the cache command
type CacheCommand struct {
	config *config.Config
}

// NewCacheCommand creates a new CacheCommand
func NewCacheCommand(cfg *config.Config) *CacheCommand {
	return &CacheCommand{config: cfg}
}

// Execute runs the command
func (cc *CacheCommand) Execute(cmd *cobra.Command, args []string) error {
	store := cache.NewStore(cc.config.CacheDir, cc.config.CacheMaxAge)

	action := "stats"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "stats":
		stats, err := store.Stat()
		if err != nil {
			return err
		}
		fmt.Printf("Cache directory: %s\n", cc.config.CacheDir)
		fmt.Printf("Entries: %d (%d stale)\n", stats.Entries, stats.Stale)
		fmt.Printf("Size: %.1f KiB\n", float64(stats.Bytes)/1024)
		return nil
	case "clear":
		removed, err := store.Clear()
		if err != nil {
			return err
		}
		color.Green("✓ Removed %d cache entrie(s)", removed)
		return nil
	case "prune":
		removed, err := store.Prune()
		if err != nil {
			return err
		}
		color.Green("✓ Pruned %d stale entrie(s)", removed)
		return nil
	default:
		return fmt.Errorf("unknown cache action: %s", action)
	}
}
