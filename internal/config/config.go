package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

// ErrInvalid is returned by Validate for a setting a board cannot use.
var ErrInvalid = errors.New("invalid setting")

// Config holds all configurable whiteboard settings.
type Config struct {
	PenColor     string  `json:"pen_color"`
	PenThickness float64 `json:"pen_thickness"`
	EraserSize   float64 `json:"eraser_size"`
	LineStyle    string  `json:"line_style"` // "solid" | "dashed" | "dotted" | "arrow"
	FillStyle    string  `json:"fill_style"`
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
	SaveDir      string  `json:"save_dir"`
	BackendURL   string  `json:"backend_url"` // empty saves to SaveDir
	ListenAddr   string  `json:"listen_addr"`
	ShareAddr    string  `json:"share_addr"` // non-empty streams the GUI board live
	Advertise    *bool   `json:"advertise,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	advertise := false
	return Config{
		PenColor:     "#000000",
		PenThickness: 1,
		EraserSize:   50,
		LineStyle:    string(state.LineSolid),
		CanvasWidth:  1280,
		CanvasHeight: 800,
		SaveDir:      defaultSaveDir(),
		ListenAddr:   ":3000",
		Advertise:    &advertise,
	}
}

// defaultSaveDir follows the XDG base directory layout.
func defaultSaveDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "whiteboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "whiteboard"
	}
	return filepath.Join(home, ".local", "share", "whiteboard")
}

// LoadGlobal reads ~/.config/whiteboard/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "whiteboard", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .whiteboard.json in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".whiteboard.json", false)
}

// Load merges the global and project files.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Defaults(), err
	}
	project, err := LoadProject()
	if err != nil {
		return Defaults(), err
	}
	return Merge(global, project), nil
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

// apply copies every field set in src over dst.
func apply(dst, src *Config) {
	if src == nil {
		return
	}
	if src.PenColor != "" {
		dst.PenColor = src.PenColor
	}
	if src.PenThickness > 0 {
		dst.PenThickness = src.PenThickness
	}
	if src.EraserSize > 0 {
		dst.EraserSize = src.EraserSize
	}
	if src.LineStyle != "" {
		dst.LineStyle = src.LineStyle
	}
	if src.FillStyle != "" {
		dst.FillStyle = src.FillStyle
	}
	if src.CanvasWidth > 0 {
		dst.CanvasWidth = src.CanvasWidth
	}
	if src.CanvasHeight > 0 {
		dst.CanvasHeight = src.CanvasHeight
	}
	if src.SaveDir != "" {
		dst.SaveDir = src.SaveDir
	}
	if src.BackendURL != "" {
		dst.BackendURL = src.BackendURL
	}
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.ShareAddr != "" {
		dst.ShareAddr = src.ShareAddr
	}
	if src.Advertise != nil {
		v := *src.Advertise
		dst.Advertise = &v
	}
}

// Style is the initial tool configuration for a new board.
func (c Config) Style() state.Style {
	return state.Style{
		Color:        c.PenColor,
		PenThickness: c.PenThickness,
		EraserSize:   c.EraserSize,
		LineStyle:    state.LineStyle(c.LineStyle),
		FillStyle:    c.FillStyle,
	}
}

// Validate checks the settings a new board starts with.
func (c Config) Validate() error {
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	switch {
	case !positive(c.PenThickness):
		return fmt.Errorf("%w: pen thickness %v must be positive", ErrInvalid, c.PenThickness)
	case !positive(c.EraserSize):
		return fmt.Errorf("%w: eraser size %v must be positive", ErrInvalid, c.EraserSize)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.CanvasWidth, c.CanvasHeight)
	case !state.LineStyle(c.LineStyle).Valid():
		return fmt.Errorf("%w: line style %q", ErrInvalid, c.LineStyle)
	}
	if _, err := render.ParseColor(c.PenColor); err != nil {
		return fmt.Errorf("%w: pen colour: %v", ErrInvalid, err)
	}
	if c.FillStyle != "" {
		if _, err := render.ParseColor(c.FillStyle); err != nil {
			return fmt.Errorf("%w: fill: %v", ErrInvalid, err)
		}
	}
	return nil
}

// ShouldAdvertise reports whether a backend announces itself over mDNS.
func (c Config) ShouldAdvertise() bool {
	return c.Advertise != nil && *c.Advertise
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
