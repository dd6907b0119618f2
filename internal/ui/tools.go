package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Whiteboard/internal/config"
	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

var toolNames = map[state.Kind]string{
	state.KindPen:        "Pen",
	state.KindEraser:     "Eraser",
	state.KindRectangle:  "Rectangle",
	state.KindCircle:     "Circle",
	state.KindLine:       "Line",
	state.KindText:       "Text",
	state.KindStartEvent: "Start event",
	state.KindEndEvent:   "End event",
	state.KindGateway:    "Gateway",
	state.KindTask:       "Task",
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var palette = []string{"#000000", "#ff0000", "#00a000", "#0000ff", "#ffcc00", "#8e44ad"}

// NewToolbar builds the tool, style and command rows above the board.
func NewToolbar(a *boardApp, cfg config.Config) fyne.CanvasObject {
	c := a.board

	// --- Tool ---
	labels := make([]string, len(state.Kinds))
	byLabel := make(map[string]state.Kind, len(state.Kinds))
	for i, k := range state.Kinds {
		labels[i] = toolNames[k]
		byLabel[labels[i]] = k
	}
	tool := widget.NewSelect(labels, func(label string) {
		if err := c.SetTool(byLabel[label]); err != nil {
			a.SetStatus(err.Error())
		}
		a.widget.Refresh()
	})
	tool.SetSelected(toolNames[c.Tool()])

	// --- Color Palette ---
	var fill *widget.Check
	current := canvas.NewRectangle(colorOf(cfg.PenColor))
	current.SetMinSize(fyne.NewSize(24, 24))
	setColor := func(col color.Color) {
		hex := render.Hex(col)
		if err := c.SetPenColor(hex); err != nil {
			a.SetStatus(err.Error())
			return
		}
		current.FillColor = col
		current.Refresh()
		if fill.Checked {
			c.SetFillStyle(hex)
		}
	}
	colorBox := container.NewHBox(current, widget.NewSeparator())
	for _, hex := range palette {
		colorBox.Add(newColorSwatch(colorOf(hex), setColor))
	}
	more := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Pen colour", "Pick any colour", setColor, a.win)
		picker.Advanced = true
		picker.Show()
	})
	colorBox.Add(more)

	fill = widget.NewCheck("Fill", nil)
	fill.SetChecked(cfg.FillStyle != "")
	fill.OnChanged = func(on bool) {
		if on {
			c.SetFillStyle(c.Style().Color)
		} else {
			c.SetFillStyle("")
		}
	}

	// --- Stroke Width Sliders ---
	penSlider := widget.NewSlider(1.0, 50.0)
	penSlider.SetValue(cfg.PenThickness)
	penSlider.OnChanged = func(val float64) {
		if err := c.SetPenThickness(val); err != nil {
			a.SetStatus(err.Error())
		}
	}
	eraserSlider := widget.NewSlider(5.0, 100.0)
	eraserSlider.SetValue(cfg.EraserSize)
	eraserSlider.OnChanged = func(val float64) {
		if err := c.SetEraserSize(val); err != nil {
			a.SetStatus(err.Error())
		}
	}
	sliderSize := layout.NewGridWrapLayout(fyne.NewSize(120, 35))

	lineStyle := widget.NewSelect([]string{
		string(state.LineSolid), string(state.LineDashed), string(state.LineDotted), string(state.LineArrow),
	}, func(s string) {
		if err := c.SetLineStyle(state.LineStyle(s)); err != nil {
			a.SetStatus(err.Error())
		}
	})
	lineStyle.SetSelected(cfg.LineStyle)

	// --- Commands ---
	a.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), a.doUndo)
	a.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), a.doRedo)
	a.undo.Disable()
	a.redo.Disable()
	commands := container.NewHBox(
		a.undo,
		a.redo,
		widget.NewButtonWithIcon("", theme.DeleteIcon(), a.doClear),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), a.save),
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), a.open),
		widget.NewButtonWithIcon("Import", theme.FileIcon(), a.importFile),
		widget.NewButtonWithIcon("Export", theme.DocumentPrintIcon(), a.exportFile),
		widget.NewButtonWithIcon("", theme.DownloadIcon(), a.download),
	)

	// --- Assemble everything ---
	styleRow := container.NewHBox(
		widget.NewLabel("Tool:"),
		tool,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		fill,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		container.New(sliderSize, penSlider),
		widget.NewLabel("Eraser:"),
		container.New(sliderSize, eraserSlider),
		widget.NewLabel("Line:"),
		lineStyle,
		layout.NewSpacer(),
	)
	return container.NewVBox(styleRow, container.NewHBox(commands, layout.NewSpacer()))
}

func colorOf(s string) color.Color {
	c, err := render.ParseColor(s)
	if err != nil {
		return color.Black
	}
	return c
}
