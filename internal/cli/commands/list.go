package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eparenti/eqa-sub002/internal/config"
	"github.com/eparenti/eqa-sub002/internal/discovery"
	"github.com/eparenti/eqa-sub002/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config     *config.Config
	scanner    *discovery.Scanner
	filter     *discovery.Filter
	classifier *discovery.Classifier
	formatter  *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	classifier *discovery.Classifier,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:     cfg,
		scanner:    scanner,
		filter:     filter,
		classifier: classifier,
		formatter:  formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	materials, err := lc.config.ResolveMaterials()
	if err != nil {
		return err
	}

	dirs, err := lc.scanner.Scan(materials)
	if err != nil {
		return err
	}
	dirs = lc.filter.FilterByName(dirs, lc.config.Flags.Filter)

	exercises, classifyErrs := lc.classifier.ClassifyAll(dirs)
	for _, cerr := range classifyErrs {
		color.Red("Error classifying exercise: %v", cerr)
	}

	if len(exercises) == 0 {
		color.Yellow("No exercises found")
		return nil
	}

	lc.formatter.PrintExerciseList(exercises, lc.config.Flags.Steps)
	return nil
}
