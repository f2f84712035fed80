package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/config"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/sink"
	"github.com/matzehuels/cardpress/pkg/source"
)

// cardsCommand creates the cards command for rendering a CSV sheet.
func (c *CLI) cardsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "cards [cards.csv]",
		Short: "Render every card of a CSV sheet to PNG",
		Long: `Render every card of a semicolon separated CSV sheet to PNG.

Each data row holds header text, body text, image name, border color and
output name. Rows whose first field starts with "_" are comments. Previous
.png and .pdf files in the output directory are removed first.

A card that cannot be rendered (missing image, text that does not fit) is
reported and skipped; the command fails if any card failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			csvPath := f.Paths.CSVPath()
			if len(args) == 1 {
				csvPath = args[0]
			}
			if output != "" {
				f.Paths.OutputDir = output
			}

			results, err := c.renderCards(cmd.Context(), f, csvPath)
			if err != nil {
				return err
			}
			printNewline()
			printNextStep("Tile", appName+" layout "+f.Paths.OutputDir)
			return checkFailures(results)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output directory (default: paths.output_dir)")

	return cmd
}

// renderCards reads the sheet at csvPath, clears the output directory and
// writes one PNG per successfully rendered card.
func (c *CLI) renderCards(ctx context.Context, f config.File, csvPath string) ([]pipeline.CardResult, error) {
	logger := loggerFromContext(ctx)

	specs, skipped, err := source.ReadSpecsFile(csvPath)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		logger.Debug("skipped row", "file", csvPath, "line", s.Line, "reason", s.Reason)
	}
	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s has no cards", csvPath)
	}

	removed, err := sink.CleanOutputs(f.Paths.OutputDir, sink.OutputExtensions...)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", f.Paths.OutputDir, err)
	}
	logger.Debug("removed previous outputs", "dir", f.Paths.OutputDir, "count", len(removed))

	composer, err := newComposer(f)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner()
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger, "wrote cards")
	results := runner.RenderCards(ctx, composer, specs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cached := 0
	for i := range results {
		r := &results[i]
		if !r.OK() {
			continue
		}
		if _, err := sink.WritePNG(f.Paths.OutputDir, r.Spec.ID, r.Card.Image); err != nil {
			r.Err = err
			continue
		}
		if r.Cached {
			cached++
		}
	}
	failed := pipeline.Failed(results)
	prog.done("dir", f.Paths.OutputDir, "count", len(results)-len(failed), "cached", cached)

	if len(failed) == 0 {
		printSuccess("Cards complete")
	} else {
		printWarning("%d of %d cards failed", len(failed), len(results))
		for _, r := range failed {
			printCardError(r.Spec.ID, r.Err)
		}
	}
	printFile(f.Paths.OutputDir)
	printStats(len(results)-len(failed), len(failed), len(skipped), cached)
	return results, nil
}

// checkFailures turns failed cards into a command error.
func checkFailures(results []pipeline.CardResult) error {
	if failed := pipeline.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d cards failed", len(failed), len(results))
	}
	return nil
}
