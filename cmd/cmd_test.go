package cmd

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"pgregory.net/rapid"

	"Whiteboard/internal/board"
	"Whiteboard/internal/config"
	"Whiteboard/internal/export"
	"Whiteboard/internal/geom"
	boardnet "Whiteboard/internal/net"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate keeps config files and the default save directory inside tmp.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	return tmp
}

func testDoc() state.ShapeList {
	st := state.Style{Color: "#1f77b4", PenThickness: 3, EraserSize: 10, LineStyle: state.LineArrow}
	r := state.NewShape(state.KindRectangle, geom.Pt(10, 10), st)
	r.Extend(geom.Pt(90, 60))
	l := state.NewShape(state.KindLine, geom.Pt(90, 35), st)
	l.Extend(geom.Pt(150, 35))
	g := state.NewShape(state.KindGateway, geom.Pt(150, 10), st)
	g.Extend(geom.Pt(200, 60))
	return state.ShapeList{r, l, g}
}

func writeDoc(t *testing.T, dir string, doc state.ShapeList) string {
	t.Helper()
	data, err := state.MarshalIndent(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExportWritesEachFormat(t *testing.T) {
	tmp := isolate(t)
	doc := writeDoc(t, tmp, testDoc())

	for ext, prefix := range map[string]string{
		".png": "\x89PNG",
		".pdf": "%PDF",
		".svg": "<svg",
	} {
		out := filepath.Join(tmp, "board"+ext)
		msg, err := executeCommand(rootCmd, "export", doc, out)
		if err != nil {
			t.Fatalf("export %s: %v", ext, err)
		}
		if !strings.Contains(msg, "Exported 3 shapes") {
			t.Errorf("export %s output = %q", ext, msg)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data[:min(len(data), 64)], []byte(prefix)) {
			t.Errorf("%s does not start like a %s file", out, ext)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	tmp := isolate(t)
	doc := writeDoc(t, tmp, testDoc())

	_, err := executeCommand(rootCmd, "export", doc, filepath.Join(tmp, "board.gif"))
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Fatalf("err = %v", err)
	}
}

func TestRenderMissingFile(t *testing.T) {
	tmp := isolate(t)
	missing := filepath.Join(tmp, "nope.json")

	_, err := executeCommand(rootCmd, "render", missing)
	if err == nil || !strings.Contains(err.Error(), "file not found: "+missing) {
		t.Fatalf("err = %v", err)
	}
}

func TestRenderCanvasSize(t *testing.T) {
	tmp := isolate(t)
	doc := writeDoc(t, tmp, testDoc())

	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 300).Draw(rt, "width")
		h := rapid.IntRange(1, 300).Draw(rt, "height")
		out := filepath.Join(tmp, "render.png")

		if _, err := executeCommand(rootCmd, "render", doc, "-o", out,
			"--width", strconv.Itoa(w), "--height", strconv.Itoa(h)); err != nil {
			rt.Fatalf("render: %v", err)
		}
		f, err := os.Open(out)
		if err != nil {
			rt.Fatal(err)
		}
		defer f.Close()
		c, err := png.DecodeConfig(f)
		if err != nil {
			rt.Fatal(err)
		}
		if c.Width != w || c.Height != h {
			rt.Fatalf("rendered %dx%d, want %dx%d", c.Width, c.Height, w, h)
		}
	})
}

func TestLsListsSavedBoards(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, "boards")

	out, err := executeCommand(rootCmd, "ls", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No saved boards.") {
		t.Fatalf("empty listing = %q", out)
	}

	d, err := store.NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := d.Save(context.Background(), "process.json", testDoc())
	if err != nil {
		t.Fatal(err)
	}

	out, err = executeCommand(rootCmd, "ls", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, string(id)) || !strings.Contains(out, "process.json") || !strings.Contains(out, "3 shapes") {
		t.Fatalf("listing = %q", out)
	}
	if GetConfig().SaveDir != dir {
		t.Errorf("--dir not applied: SaveDir = %q", GetConfig().SaveDir)
	}
}

func TestRenderSavedBoardByID(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, "boards")
	d, err := store.NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := d.Save(context.Background(), "saved.json", testDoc())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(tmp, "saved.svg")
	if _, err := executeCommand(rootCmd, "export", "--dir", dir, "--id", string(id), out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<polygon") {
		t.Errorf("gateway missing from export:\n%s", data)
	}

	if _, err := executeCommand(rootCmd, "render", "--dir", dir, "--id", "not-a-board"); err == nil {
		t.Fatal("unknown id rendered")
	}
}

func TestProjectConfigAppliesToCommands(t *testing.T) {
	tmp := isolate(t)
	project := filepath.Join(tmp, "project")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	dir := filepath.Join(tmp, "from-project")
	if err := os.WriteFile(".whiteboard.json", []byte(`{"save_dir":"`+filepath.ToSlash(dir)+`"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "ls"); err != nil {
		t.Fatal(err)
	}
	if got := GetConfig().SaveDir; filepath.Clean(got) != filepath.Clean(dir) {
		t.Fatalf("SaveDir = %q, want %q", got, dir)
	}
}

func TestRmDeletesBoards(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, "boards")
	d, err := store.NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := d.Save(context.Background(), "gone.json", testDoc())
	if err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "rm", "--dir", dir, string(id))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Deleted "+string(id)) {
		t.Errorf("output = %q", out)
	}
	if _, err := d.Load(context.Background(), id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("board still loadable: %v", err)
	}

	_, err = executeCommand(rootCmd, "rm", "--dir", dir, string(id))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second rm err = %v", err)
	}
}

func TestInvalidStyleFlagsRejected(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{
		{"--thickness=-3"},
		{"--thickness", "0"},
		{"--eraser=-1"},
		{"--color", "nope"},
	} {
		_, err := executeCommand(rootCmd, args...)
		if !errors.Is(err, config.ErrInvalid) {
			t.Errorf("%v: err = %v, want ErrInvalid", args, err)
		}
	}
}

func TestExportRefusesHugeDocument(t *testing.T) {
	tmp := isolate(t)
	r := state.NewShape(state.KindRectangle, geom.Pt(0, 0), state.Style{Color: "#000000", PenThickness: 1, EraserSize: 10})
	r.Extend(geom.Pt(1e6, 1e6))
	doc := writeDoc(t, tmp, state.ShapeList{r})
	out := filepath.Join(tmp, "huge.png")

	if _, err := executeCommand(rootCmd, "export", doc, out); !errors.Is(err, export.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output written anyway: %v", err)
	}
	if _, err := executeCommand(rootCmd, "render", doc, "-o", out, "--width", "100000"); !errors.Is(err, export.ErrTooLarge) {
		t.Fatalf("render err = %v, want ErrTooLarge", err)
	}
}

func TestFollowWritesSnapshots(t *testing.T) {
	tmp := isolate(t)
	h := boardnet.NewHub()
	ts := httptest.NewServer(h)
	defer ts.Close()
	defer h.Close()
	h.Publish(board.Snapshot{Revision: 7, Shapes: testDoc()})

	out := filepath.Join(tmp, "live.svg")
	msg, err := executeCommand(rootCmd, "follow", "ws"+strings.TrimPrefix(ts.URL, "http"), "-o", out, "--frames", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg, "revision 7: 3 shapes") {
		t.Errorf("output = %q", msg)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<polygon") {
		t.Errorf("gateway missing from snapshot:\n%s", data)
	}
}

func TestFeedURLArgument(t *testing.T) {
	for in, want := range map[string]string{
		"ws://10.0.0.2:3001/whiteboard/live": "ws://10.0.0.2:3001/whiteboard/live",
		"http://10.0.0.2:3000/whiteboard":    "ws://10.0.0.2:3000/whiteboard/feed",
	} {
		if got := feedURL(in); got != want {
			t.Errorf("feedURL(%q) = %q, want %q", in, got, want)
		}
	}
}
