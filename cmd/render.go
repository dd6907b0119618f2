package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Whiteboard/internal/board"
	"Whiteboard/internal/export"
	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

var (
	fromStore    bool
	renderOut    string
	renderWidth  int
	renderHeight int
)

// readDoc loads the document named by arg: a stored board id when --id is
// set, a JSON file otherwise.
func readDoc(cmd *cobra.Command, arg string) (state.ShapeList, error) {
	if fromStore {
		s, err := openStore()
		if err != nil {
			return nil, err
		}
		return s.Load(commandContext(cmd), store.FileID(arg))
	}
	f, err := os.Open(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", arg)
		}
		return nil, err
	}
	defer f.Close()
	doc, err := state.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arg, err)
	}
	return doc, nil
}

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Rasterise a board to PNG exactly as the canvas shows it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, h := cfg.CanvasWidth, cfg.CanvasHeight
		if renderWidth > 0 {
			w = renderWidth
		}
		if renderHeight > 0 {
			h = renderHeight
		}
		if w > export.MaxSide || h > export.MaxSide {
			return fmt.Errorf("%w: canvas %dx%d", export.ErrTooLarge, w, h)
		}
		b := board.NewController(render.NewSurface(w, h), render.Measurer{}, cfg.Style())

		if fromStore {
			s, err := openStore()
			if err != nil {
				return err
			}
			if err := b.Load(commandContext(cmd), s, store.FileID(args[0])); err != nil {
				return err
			}
		} else {
			doc, err := readDoc(cmd, args[0])
			if err != nil {
				return err
			}
			if err := b.ApplyLoaded(doc); err != nil {
				return err
			}
		}
		n := len(b.Shapes())

		out, err := os.Create(renderOut)
		if err != nil {
			return err
		}
		if err := b.Download(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d shapes to %s (%dx%d)\n", n, renderOut, w, h)
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&fromStore, "id", false, "treat the argument as a saved board id")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "whiteboard.png", "output PNG file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "canvas width (overrides config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "canvas height (overrides config)")
	rootCmd.AddCommand(renderCmd)
}
