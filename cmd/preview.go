package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"vgapview/internal/config"
	"vgapview/internal/log"
	"vgapview/internal/preview"
	"vgapview/internal/scene"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw one turn of a scene file as a still image",
	Long: `Renders a single frame of one turn from a scene file written by "build"
(json or js format). Without --out the image goes to stdout: inline in the
terminal (kitty, iTerm or sixel) when stdout is a terminal, PNG otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenePath, _ := cmd.Flags().GetString("scene")
		turn, _ := cmd.Flags().GetInt("turn")
		frame, _ := cmd.Flags().GetFloat64("frame")
		width, _ := cmd.Flags().GetInt("width")
		out, _ := cmd.Flags().GetString("out")
		protocol, _ := cmd.Flags().GetString("protocol")

		if scenePath == "" {
			return fmt.Errorf("%w: missing options: scene", config.ErrInvalid)
		}
		if !slices.Contains(preview.Protocols(), protocol) {
			return fmt.Errorf("%w: unknown protocol %q", config.ErrInvalid, protocol)
		}

		f, err := os.Open(scenePath)
		if err != nil {
			return err
		}
		rec, err := scene.Decode(f)
		f.Close()
		if err != nil {
			return err
		}

		// --turn is the game turn; the record is indexed from its first turn.
		index := turn
		if rec.Control != nil {
			index = turn - rec.Control.FirstTurn
		}
		img, err := preview.Render(rec, index, preview.Options{Width: width, Frame: frame})
		if err != nil {
			return err
		}

		dst := os.Stdout
		if out != "" {
			if dst, err = os.Create(out); err != nil {
				return err
			}
			defer dst.Close()
			if protocol == preview.ProtocolAuto {
				protocol = preview.ProtocolPNG
			}
		} else if protocol == preview.ProtocolAuto {
			protocol = preview.Detect(os.Stdout)
		}

		log.Debug("rendering preview", "turn", turn, "index", index, "frame", frame, "protocol", protocol)
		return preview.Encode(dst, img, protocol)
	},
}

func init() {
	previewCmd.Flags().String("scene", "", "Scene file to read")
	previewCmd.Flags().Int("turn", 0, "Game turn to draw")
	previewCmd.Flags().Float64("frame", 1.0, "Position within the turn animation, 0 to 1")
	previewCmd.Flags().Int("width", 800, "Image width in pixels")
	previewCmd.Flags().String("out", "", "Image file to write")
	previewCmd.Flags().String("protocol", preview.ProtocolAuto, "Image output: auto, png, sixel, kitty or iterm")
	rootCmd.AddCommand(previewCmd)
}
