package export

import (
	"fmt"
	"image/color"
	"image/png"
	"io"

	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

// PNG rasterises doc exactly as the board draws it, over the background.
func PNG(w io.Writer, doc state.ShapeList, o Options) error {
	width, height, err := o.Size(doc)
	if err != nil {
		return err
	}
	bg, err := render.ParseColor(o.background())
	if err != nil {
		bg = color.White
	}
	img := render.Flatten(render.Repaint(doc, width, height), bg)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
