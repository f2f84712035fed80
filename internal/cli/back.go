package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/render/back"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

// backCommand creates the back command for rendering a QR code card back.
func (c *CLI) backCommand() *cobra.Command {
	var (
		color  string
		id     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "back <payload>",
		Short: "Render a card back with a QR code",
		Long: `Render a card back: the card frame around a QR code of payload.

The back has the size of the configured cards, so it can be tiled with
'layout' like any card face.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = f.Paths.OutputDir
			}

			img, err := back.Compose(f.Card, color, args[0])
			if err != nil {
				return err
			}
			path, err := sink.WritePNG(output, id, img)
			if err != nil {
				return err
			}
			printSuccess("Card back complete")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "black", "frame color")
	cmd.Flags().StringVar(&id, "id", "back", "output name (without .png)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output directory (default: paths.output_dir)")

	return cmd
}
