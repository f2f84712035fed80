package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// buildCommand creates the build command, which renders cards and tiles
// them in one run.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags  pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "build [cards.csv]",
		Short: "Render cards and tile them onto pages",
		Long: `Render every card of a CSV sheet and tile the rendered cards onto pages.

This is 'cards' followed by 'layout' without reading the card images back
from disk. Cards that fail are reported and left out of the pages; the
command still fails if any card failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, &f.Page)
			if err := f.Page.Validate(); err != nil {
				return err
			}
			csvPath := f.Paths.CSVPath()
			if len(args) == 1 {
				csvPath = args[0]
			}
			if output != "" {
				f.Paths.OutputDir = output
			}
			layoutDir := f.Paths.LayoutDir
			if flags.out != "" {
				layoutDir = flags.out
			}

			ctx := cmd.Context()
			results, err := c.renderCards(ctx, f, csvPath)
			if err != nil {
				return err
			}
			items := pipeline.Items(results)
			if len(items) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no card rendered; nothing to tile")
			}
			printNewline()
			if err := c.tile(ctx, items, f.Page, layoutDir); err != nil {
				return err
			}
			return checkFailures(results)
		},
	}

	cmd.Flags().StringVarP(&output, "cards-out", "o", "", "card output directory (default: paths.output_dir)")
	flags.register(cmd)

	return cmd
}
