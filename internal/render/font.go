package render

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

const defaultFontSize = 16

// Font is a parsed CSS-like font descriptor such as "bold 16px sans-serif".
type Font struct {
	Size   float64
	Family string
	Bold   bool
}

// ParseFont reads a descriptor of the form "[bold] <size>px <family>".
// Missing parts take the defaults of 16px sans-serif.
func ParseFont(desc string) Font {
	f := Font{Size: defaultFontSize, Family: "sans-serif"}
	fields := strings.Fields(desc)
	for i, field := range fields {
		switch {
		case field == "bold" || field == "700" || field == "800" || field == "900":
			f.Bold = true
		case strings.HasSuffix(field, "px"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(field, "px"), 64); err == nil && v > 0 {
				f.Size = v
			}
			if i+1 < len(fields) {
				f.Family = strings.Trim(strings.Join(fields[i+1:], " "), `"'`)
			}
			return f
		}
	}
	return f
}

func (f Font) String() string {
	desc := fmt.Sprintf("%gpx %s", f.Size, f.Family)
	if f.Bold {
		desc = "bold " + desc
	}
	return desc
}

var (
	parseOnce sync.Once
	parsed    map[string]*truetype.Font
	parseErr  error
)

func loadFonts() {
	parsed = make(map[string]*truetype.Font)
	for name, ttf := range map[string][]byte{
		"regular":  goregular.TTF,
		"bold":     gobold.TTF,
		"mono":     gomono.TTF,
		"monobold": gomonobold.TTF,
	} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			parseErr = fmt.Errorf("failed to parse font %s: %w", name, err)
			return
		}
		parsed[name] = f
	}
}

// Face returns a new face for f. Faces keep glyph caches and are not safe
// for concurrent use, so each caller gets its own.
func (f Font) Face() (font.Face, error) {
	parseOnce.Do(loadFonts)
	if parseErr != nil {
		return nil, parseErr
	}
	key := "regular"
	if strings.Contains(f.Family, "mono") || strings.Contains(f.Family, "courier") {
		key = "mono"
	}
	if f.Bold {
		key = strings.TrimSuffix(key, "regular") + "bold"
	}
	return truetype.NewFace(parsed[key], &truetype.Options{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Measurer measures text with the faces used by the renderer.
type Measurer struct{}

// MeasureText returns the advance width of text set in the descriptor desc.
func (Measurer) MeasureText(text, desc string) float64 {
	face, err := ParseFont(desc).Face()
	if err != nil {
		return 0
	}
	defer face.Close()
	return float64(font.MeasureString(face, text)) / 64
}
