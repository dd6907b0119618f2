package board

import (
	"strings"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/state"
)

const (
	// TextPadding is added to the measured width of committed text.
	TextPadding = 8
	// TextLineHeight is the fixed height of a text shape.
	TextLineHeight = 24
)

// TextMeasurer measures the advance width of text in a font descriptor.
type TextMeasurer interface {
	MeasureText(text, font string) float64
}

// EntryState is the state of the text overlay.
type EntryState int

const (
	Inactive EntryState = iota
	AwaitingInput
)

func (s EntryState) String() string {
	if s == AwaitingInput {
		return "awaiting-input"
	}
	return "inactive"
}

// TextEntry is the overlay text field opened by the text tool.
type TextEntry struct {
	state   EntryState
	pos     geom.Point
	content string
}

// Begin opens the overlay at pos with empty content.
func (e *TextEntry) Begin(pos geom.Point) {
	e.state = AwaitingInput
	e.pos = pos
	e.content = ""
}

func (e *TextEntry) State() EntryState { return e.state }

// Active reports whether the overlay is waiting for input.
func (e *TextEntry) Active() bool { return e.state == AwaitingInput }

// Position is where the overlay was opened.
func (e *TextEntry) Position() geom.Point { return e.pos }

func (e *TextEntry) Content() string { return e.content }

// SetContent replaces the typed text. Ignored when inactive.
func (e *TextEntry) SetContent(s string) {
	if e.state == AwaitingInput {
		e.content = s
	}
}

// Commit closes the overlay. Non-blank content yields a text shape sized by
// m; blank content yields nothing.
func (e *TextEntry) Commit(st state.Style, m TextMeasurer) (*state.Shape, bool) {
	if e.state != AwaitingInput {
		return nil, false
	}
	content := e.content
	e.Cancel()
	if strings.TrimSpace(content) == "" {
		return nil, false
	}
	w := m.MeasureText(content, state.DefaultFont) + TextPadding
	return state.NewText(e.pos, content, w, TextLineHeight, st), true
}

// Cancel closes the overlay and drops its content.
func (e *TextEntry) Cancel() {
	e.state = Inactive
	e.content = ""
}
