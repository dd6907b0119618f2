package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"Whiteboard/internal/export"
	boardnet "Whiteboard/internal/net"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

// save stores a copy of the board as JSON together with its rendered image,
// off the event goroutine.
func (a *boardApp) save() {
	name := widget.NewEntry()
	name.SetText(a.filename)
	items := []*widget.FormItem{widget.NewFormItem("File name", name)}
	dialog.ShowForm("Save board", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		filename := strings.TrimSpace(name.Text)
		if filename == "" {
			filename = boardnet.DefaultFilename
		}
		job := a.board.PrepareSave(filename)
		a.SetStatus("Saving " + filename + "...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			msg := "Save failed"
			id, err := job.Save(ctx, a.store)
			if err == nil {
				msg = "Saving the image failed"
				err = job.SaveImage(ctx, a.store)
			}
			fyne.Do(func() {
				if err != nil {
					a.fail(msg, err)
					return
				}
				a.filename = filename
				a.SetStatus(fmt.Sprintf("Saved %s (%s)", filename, id))
			})
		}()
	}, a.win)
}

// open lists the saved boards in the background and offers them for loading.
func (a *boardApp) open() {
	a.SetStatus("Loading saved boards...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		infos, err := a.store.List(ctx)
		fyne.Do(func() {
			if err != nil {
				a.fail("Listing boards failed", err)
				return
			}
			a.SetStatus(fmt.Sprintf("%d saved boards", len(infos)))
			a.showFiles(infos)
		})
	}()
}

func (a *boardApp) showFiles(infos []store.FileInfo) {
	if len(infos) == 0 {
		dialog.ShowInformation("Open board", "No saved boards yet.", a.win)
		return
	}
	list := widget.NewList(
		func() int { return len(infos) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			fi := infos[id]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  (%d shapes, %s)",
				fi.Name, fi.Shapes, fi.Modified.Local().Format("2006-01-02 15:04")))
		},
	)
	d := dialog.NewCustom("Open board", "Cancel", list, a.win)
	list.OnSelected = func(id widget.ListItemID) {
		d.Hide()
		a.load(infos[id])
	}
	d.Resize(fyne.NewSize(460, 360))
	d.Show()
}

// load fetches a saved board off the event goroutine and applies it there.
func (a *boardApp) load(fi store.FileInfo) {
	a.SetStatus("Loading " + fi.Name + "...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		doc, err := a.store.Load(ctx, fi.ID)
		fyne.Do(func() {
			if err != nil {
				a.fail("Load failed", err)
				return
			}
			if err := a.board.ApplyLoaded(doc); err != nil {
				a.fail("Load failed", err)
				return
			}
			a.filename = fi.Name
			a.widget.Refresh()
			a.SetStatus(fmt.Sprintf("Loaded %d shapes from %s", len(doc), fi.Name))
		})
	}()
}

// importFile loads a board document from any JSON file.
func (a *boardApp) importFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.fail("Import failed", err)
			return
		}
		if reader == nil {
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("[BOARD] Error closing reader: %v", err)
			}
		}()

		doc, err := state.Decode(reader)
		if err != nil {
			a.fail("Error parsing file - invalid format", err)
			return
		}
		if err := a.board.ApplyLoaded(doc); err != nil {
			a.fail("Import failed", err)
			return
		}
		a.filename = reader.URI().Name()
		a.widget.Refresh()
		a.SetStatus(fmt.Sprintf("Imported %d shapes", len(doc)))
	}, a.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// saveAs asks for a file and hands it to write.
func (a *boardApp) saveAs(defaultName string, exts []string, write func(w io.Writer, name string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.fail("Writing file failed", err)
			return
		}
		if writer == nil {
			return
		}
		name := writer.URI().Name()
		err = write(writer, name)
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			a.fail("Writing "+name+" failed", err)
			return
		}
		a.SetStatus("Wrote " + name)
	}, a.win)
	d.SetFileName(defaultName)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

// exportFile writes the board as a document file: JSON, PNG, PDF or SVG by
// extension.
func (a *boardApp) exportFile() {
	exts := []string{".json", ".png", ".pdf", ".svg"}
	a.saveAs("whiteboard.pdf", exts, func(w io.Writer, name string) error {
		doc := a.board.Shapes()
		if strings.EqualFold(filepath.Ext(name), ".json") {
			return state.Encode(w, doc)
		}
		f, err := export.FormatOf(name)
		if err != nil {
			return err
		}
		return export.Write(w, f, doc, export.DefaultOptions)
	})
}

// download saves exactly what the board shows as a PNG.
func (a *boardApp) download() {
	a.saveAs("whiteboard.png", []string{".png"}, func(w io.Writer, _ string) error {
		return a.board.Download(w)
	})
}
