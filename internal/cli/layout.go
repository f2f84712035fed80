package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/page"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

// pageFlags holds the page geometry flags shared by layout and build.
// Only flags that were set on the command line override the config file.
type pageFlags struct {
	copies   int
	width    float64 // card width in mm
	height   float64 // card height in mm
	pad      float64 // outer margin in mm
	innerPad float64 // gap between cards in mm
	dpi      float64
	out      string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	def := page.DefaultConfig()
	cmd.Flags().IntVar(&p.copies, "copies", def.Copies, "number of copies of each card")
	cmd.Flags().Float64Var(&p.width, "width", def.CardWidthMM, "card width in mm")
	cmd.Flags().Float64Var(&p.height, "height", def.CardHeightMM, "card height in mm")
	cmd.Flags().Float64Var(&p.pad, "pad", def.PadMM, "padding around the grid in mm")
	cmd.Flags().Float64Var(&p.innerPad, "inner-pad", def.GapMM, "padding between cards in mm")
	cmd.Flags().Float64Var(&p.dpi, "dpi", def.DPI, "print resolution")
	cmd.Flags().StringVar(&p.out, "out", "", "output directory for pages (default: paths.layout_dir)")
}

// apply copies the flags the user set into cfg.
func (p *pageFlags) apply(cmd *cobra.Command, cfg *page.Config) {
	set := cmd.Flags().Changed
	if set("copies") {
		cfg.Copies = p.copies
	}
	if set("width") {
		cfg.CardWidthMM = p.width
	}
	if set("height") {
		cfg.CardHeightMM = p.height
	}
	if set("pad") {
		cfg.PadMM = p.pad
	}
	if set("inner-pad") {
		cfg.GapMM = p.innerPad
	}
	if set("dpi") {
		cfg.DPI = p.dpi
	}
}

// layoutCommand creates the layout command for tiling card images onto pages.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags pageFlags

	cmd := &cobra.Command{
		Use:   "layout [image-dir]",
		Short: "Arrange card images in a grid on printable pages",
		Long: `Arrange card images in a grid on printable pages.

Every .png, .jpg, .jpeg and .bmp image of the directory (default: the card
output directory) is placed --copies times, row by row, on as many pages
as needed. Pages are written as page_N.png together with all_pages.pdf.
Previous pages in the output directory are removed first.`,
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

			src := f.Paths.OutputDir
			if len(args) == 1 {
				src = args[0]
			}
			out := f.Paths.LayoutDir
			if flags.out != "" {
				out = flags.out
			}

			items, err := sink.LoadImages(src)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no images found in %s", src)
			}
			return c.tile(cmd.Context(), items, f.Page, out)
		},
	}

	flags.register(cmd)

	return cmd
}

// tile lays out items and writes the pages and the PDF to out.
func (c *CLI) tile(ctx context.Context, items []page.Item, cfg page.Config, out string) error {
	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if _, err := sink.CleanOutputs(out, sink.OutputExtensions...); err != nil {
		return fmt.Errorf("clean %s: %w", out, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tiling %d cards...", len(items)))
	spinner.Start()

	sheet, err := runner.TilePages(ctx, items, cfg)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog := newProgress(loggerFromContext(ctx), "wrote pages")
	paths, err := writeSheet(out, sheet)
	if err != nil {
		return err
	}
	prog.done("dir", out, "pages", len(sheet.Images))

	g := sheet.Grid
	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printKeyValue("Grid", fmt.Sprintf("%d x %d (%d per page)", g.Cols, g.Rows, g.Capacity()))
	printKeyValue("Cards", fmt.Sprintf("%d x %d copies = %d", len(items), cfg.Copies, sheet.Instances()))
	printKeyValue("Pages", fmt.Sprint(len(sheet.Pages)))
	return nil
}

// writeSheet writes every page image and the combined PDF to dir.
func writeSheet(dir string, sheet *pipeline.Sheet) ([]string, error) {
	paths, err := sink.WritePages(dir, sheet.Images)
	if err != nil {
		return paths, err
	}
	if len(sheet.PDF) == 0 {
		return paths, nil
	}
	pdfPath := filepath.Join(dir, sink.PDFName)
	if err := os.WriteFile(pdfPath, sheet.PDF, 0644); err != nil {
		return paths, fmt.Errorf("write %s: %w", pdfPath, err)
	}
	return append(paths, pdfPath), nil
}
