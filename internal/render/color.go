package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor understands hex colours (#rgb, #rrggbb) and CSS colour names.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("parsing colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	return nil, fmt.Errorf("parsing colour %q: unsupported format", s)
}

// colorOr parses s and falls back to def, so a bad colour in a document
// never stops a repaint.
func colorOr(s string, def color.Color) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
