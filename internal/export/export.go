// Package export writes whiteboard documents as PNG, PDF or SVG files.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

// Options controls the page of an export. A zero Width or Height fits the
// page to the document, measured from the canvas origin.
type Options struct {
	Width      int
	Height     int
	Margin     float64
	Background string
}

// DefaultOptions fits the page with a small margin on white.
var DefaultOptions = Options{Margin: 20, Background: "#ffffff"}

// MaxSide is the largest page width or height an export will produce.
const MaxSide = 16384

// ErrTooLarge is returned for a page wider or taller than MaxSide.
var ErrTooLarge = errors.New("page too large")

// Size returns the page size for doc.
func (o Options) Size(doc state.ShapeList) (w, h int, err error) {
	w, h = o.Width, o.Height
	if w <= 0 || h <= 0 {
		if b, ok := doc.Bounds(); ok {
			if w <= 0 {
				w = fit(b.Max.X + o.Margin)
			}
			if h <= 0 {
				h = fit(b.Max.Y + o.Margin)
			}
		}
		w, h = max(w, 1), max(h, 1)
	}
	if w > MaxSide || h > MaxSide {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, w, h, MaxSide, MaxSide)
	}
	return w, h, nil
}

// fit rounds a page extent up, saturating just past MaxSide so huge or
// non-finite coordinates cannot overflow int.
func fit(v float64) int {
	switch {
	case math.IsNaN(v) || v > MaxSide:
		return MaxSide + 1
	case v < 1:
		return 1
	}
	return int(math.Ceil(v))
}

func (o Options) background() string {
	if o.Background == "" {
		return "#ffffff"
	}
	return o.Background
}

// Format is an export file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); f {
	case FormatPNG, FormatPDF, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", filepath.Ext(path))
}

// Write exports doc in format f.
func Write(w io.Writer, f Format, doc state.ShapeList, o Options) error {
	switch f {
	case FormatPNG:
		return PNG(w, doc, o)
	case FormatPDF:
		return PDF(w, doc, o)
	case FormatSVG:
		return SVG(w, doc, o)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteFile exports doc to path, choosing the format from its extension.
func WriteFile(path string, doc state.ShapeList, o Options) (err error) {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return Write(out, f, doc, o)
}

// rgb returns the 8-bit channels of a colour string.
func rgb(s string) (r, g, b int, ok bool) {
	c, err := render.ParseColor(s)
	if err != nil {
		return 0, 0, 0, false
	}
	cr, cg, cb, _ := c.RGBA()
	return int(cr >> 8), int(cg >> 8), int(cb >> 8), true
}
