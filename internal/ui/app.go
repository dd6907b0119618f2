package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Whiteboard/internal/board"
	"Whiteboard/internal/config"
	boardnet "Whiteboard/internal/net"
	"Whiteboard/internal/render"
	"Whiteboard/internal/store"
)

const storeTimeout = 30 * time.Second

// boardApp ties the window, the controller and the store together. All of
// its methods run on the fyne event goroutine.
type boardApp struct {
	win      fyne.Window
	store    store.Store
	board    *board.Controller
	widget   *BoardWidget
	status   *widget.Label
	count    *widget.Label
	undo     *widget.Button
	redo     *widget.Button
	filename string
}

// Run opens the board window and blocks until it is closed.
func Run(cfg config.Config) error {
	st, err := store.Open(cfg.SaveDir, cfg.BackendURL)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	myApp := app.New()
	myWindow := myApp.NewWindow("Whiteboard")

	surface := render.NewSurface(cfg.CanvasWidth, cfg.CanvasHeight)
	a := &boardApp{
		win:      myWindow,
		store:    st,
		board:    board.NewController(surface, render.Measurer{}, cfg.Style()),
		status:   widget.NewLabel("Ready"),
		count:    widget.NewLabel("0 shapes"),
		filename: boardnet.DefaultFilename,
	}
	a.widget = NewBoardWidget(a.board, surface)
	toolbar := NewToolbar(a, cfg)
	a.board.Subscribe(board.SubscriberFunc(a.onSnapshot))
	a.shortcuts()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.watch(ctx)
	if cfg.ShareAddr != "" {
		url, err := boardnet.Share(ctx, cfg.ShareAddr, a.board)
		if err != nil {
			log.Printf("[FEED] Not sharing: %v", err)
		} else {
			a.SetStatus("Sharing on " + url)
		}
	}

	statusBar := container.NewBorder(nil, nil, nil, a.count, a.status)
	content := container.NewBorder(toolbar, statusBar, nil, nil, a.widget)

	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(cfg.CanvasWidth), float32(cfg.CanvasHeight)))
	myWindow.ShowAndRun()
	return nil
}

// SetStatus shows text in the status bar.
func (a *boardApp) SetStatus(text string) {
	a.status.SetText(text)
}

func (a *boardApp) fail(msg string, err error) {
	log.Printf("[BOARD] %s: %v", msg, err)
	a.SetStatus(msg)
	dialog.ShowError(err, a.win)
}

func (a *boardApp) onSnapshot(s board.Snapshot) {
	a.count.SetText(fmt.Sprintf("%d shapes", len(s.Shapes)))
	enable(a.undo, a.board.CanUndo())
	enable(a.redo, a.board.CanRedo())
}

func enable(b *widget.Button, on bool) {
	if b == nil || b.Disabled() == !on {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// run executes a board command and reports a refusal in the status bar.
func (a *boardApp) run(name string, cmd func() error) {
	if err := cmd(); err != nil {
		a.SetStatus(fmt.Sprintf("Cannot %s now: %v", name, err))
		return
	}
	a.widget.Refresh()
}

func (a *boardApp) doUndo() { a.run("undo", a.board.Undo) }

func (a *boardApp) doRedo() { a.run("redo", a.board.Redo) }

func (a *boardApp) doClear() {
	dialog.ShowConfirm("Clear board", "Remove every shape? This cannot be undone.", func(ok bool) {
		if ok {
			a.run("clear", a.board.Clear)
		}
	}, a.win)
}

func (a *boardApp) shortcuts() {
	c := a.win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.doUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.doRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.save() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.open() })
}

// watch reports boards saved by other windows or machines in the status bar:
// through the directory watcher for a local store, the backend feed otherwise.
func (a *boardApp) watch(ctx context.Context) {
	notify := func(fi store.FileInfo) {
		fyne.Do(func() {
			a.SetStatus(fmt.Sprintf("%s saved (%d shapes)", fi.Name, fi.Shapes))
		})
	}
	switch s := a.store.(type) {
	case *store.Disk:
		go func() {
			if err := s.Watch(ctx, notify); err != nil {
				log.Printf("[STORE] Not watching %s: %v", s.Dir(), err)
			}
		}()
	case *store.Client:
		go func() {
			err := boardnet.Follow(ctx, boardnet.FeedURL(s.BaseURL), func(m boardnet.Message) {
				if m.Type == boardnet.TypeSaved && m.File != nil {
					notify(*m.File)
				}
			})
			if err != nil {
				log.Printf("[FEED] %v", err)
			}
		}()
	}
}
