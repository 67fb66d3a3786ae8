package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/posterforge/pkg/lineart"
	"github.com/mhuels/posterforge/pkg/poster/sink"
)

// stencilCommand creates the stencil command for preparing line-art backgrounds.
// It converts an arbitrary image into the binary black-and-white stencil the
// renderer fades behind the poster grid.
func (c *CLI) stencilCommand() *cobra.Command {
	var (
		output    string
		threshold uint8
	)

	cmd := &cobra.Command{
		Use:   "stencil [image]",
		Short: "Convert an image into a line-art background stencil",
		Long: `Convert an image into a line-art background stencil.

The input is converted to grayscale, contrast-boosted, and thresholded
into pure black and white. The result is what the renderer blends behind
the poster when line art is enabled in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			img, err := lineart.Load(input)
			if err != nil {
				return err
			}

			data, err := sink.EncodePNG(lineart.Stencil(img, threshold))
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				ext := filepath.Ext(input)
				path = strings.TrimSuffix(input, ext) + "_stencil.png"
			}
			if err := writeArtifact(path, data); err != nil {
				return err
			}

			printSuccess("Stencil written")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>_stencil.png)")
	cmd.Flags().Uint8Var(&threshold, "threshold", 0, "luminance cutoff 1-255 (default 128)")

	return cmd
}
