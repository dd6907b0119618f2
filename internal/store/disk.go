package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"Whiteboard/internal/export"
	"Whiteboard/internal/state"
)

const (
	docExt   = ".json"
	metaExt  = ".meta.json"
	imageDir = "images"
)

// Disk keeps documents in a directory: <id>.json holds the shape array,
// <id>.meta.json its FileInfo, and images/<id>.png the rendered image of the
// document. An image saved for a file name with no document behind it goes
// to images/<name>.png.
type Disk struct {
	dir string
	// ImageOptions sizes rendered images.
	ImageOptions export.Options

	mu     sync.Mutex
	latest map[string]FileID // file name -> newest document saved under it
}

// NewDisk opens (creating if needed) a store rooted at dir.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Join(dir, imageDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Disk{dir: dir, ImageOptions: export.DefaultOptions, latest: make(map[string]FileID)}, nil
}

func (d *Disk) Dir() string { return d.dir }

func (d *Disk) docPath(id FileID) string  { return filepath.Join(d.dir, string(id)+docExt) }
func (d *Disk) metaPath(id FileID) string { return filepath.Join(d.dir, string(id)+metaExt) }

// ImagePath is the file behind the image called name, as listed in
// FileInfo.Image.
func (d *Disk) ImagePath(name string) string {
	return filepath.Join(d.dir, imageDir, imageName(name))
}

func imageOf(id FileID) string { return string(id) + ".png" }

// imageName turns a user supplied file name into a safe png name.
func imageName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "whiteboard"
	}
	return base + ".png"
}

// checkID rejects anything that is not a uuid, so an id never escapes the
// store directory.
func checkID(id FileID) error {
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Save writes doc under a new id.
func (d *Disk) Save(ctx context.Context, filename string, doc state.ShapeList) (FileID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := state.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to persist whiteboard: %w", err)
	}
	id := FileID(uuid.NewString())
	info := FileInfo{
		ID:       id,
		Name:     filename,
		Modified: time.Now().UTC().Truncate(time.Second),
		Shapes:   len(doc),
	}
	meta, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to persist whiteboard: %w", err)
	}

	if err := writeAtomic(d.docPath(id), data); err != nil {
		return "", err
	}
	// the meta file is written last: List only sees complete documents
	if err := writeAtomic(d.metaPath(id), meta); err != nil {
		os.Remove(d.docPath(id))
		return "", err
	}
	d.mu.Lock()
	d.latest[filename] = id
	d.mu.Unlock()
	log.Printf("[STORE] Saved %q as %s (%d shapes)", filename, id, len(doc))
	return id, nil
}

// SaveImage renders doc to a PNG. The image belongs to the newest document
// saved as filename; without one it is named after filename.
func (d *Disk) SaveImage(ctx context.Context, filename string, doc state.ShapeList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.PNG(&buf, doc, d.ImageOptions); err != nil {
		return fmt.Errorf("failed to render whiteboard image: %w", err)
	}
	name := imageName(filename)
	if id, ok := d.newest(ctx, filename); ok {
		name = imageOf(id)
	}
	if err := writeAtomic(d.ImagePath(name), buf.Bytes()); err != nil {
		return err
	}
	log.Printf("[STORE] Saved image %s", name)
	return nil
}

// newest finds the latest document saved as filename, falling back to the
// directory listing for documents saved by an earlier process.
func (d *Disk) newest(ctx context.Context, filename string) (FileID, bool) {
	d.mu.Lock()
	id, ok := d.latest[filename]
	d.mu.Unlock()
	if ok {
		return id, true
	}
	infos, err := d.List(ctx)
	if err != nil {
		return "", false
	}
	for _, info := range infos {
		if info.Name == filename {
			return info.ID, true
		}
	}
	return "", false
}

// Load reads the document saved under id.
func (d *Disk) Load(ctx context.Context, id FileID) (state.ShapeList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(d.docPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read whiteboard: %w", err)
	}
	defer f.Close()
	return state.Decode(f)
}

// Info returns the FileInfo of id.
func (d *Disk) Info(id FileID) (FileInfo, error) {
	if err := checkID(id); err != nil {
		return FileInfo{}, err
	}
	return d.readInfo(d.metaPath(id))
}

func (d *Disk) readInfo(path string) (FileInfo, error) {
	var info FileInfo
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return info, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return info, fmt.Errorf("failed to read whiteboard info: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("failed to parse whiteboard info: %w", err)
	}
	if _, err := os.Stat(d.ImagePath(imageOf(info.ID))); err == nil {
		info.HasImage = true
		info.Image = imageOf(info.ID)
	}
	return info, nil
}

// List returns every saved document, newest first.
func (d *Disk) List(ctx context.Context) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(d.dir, "*"+metaExt))
	if err != nil {
		return nil, fmt.Errorf("listing whiteboards: %w", err)
	}
	infos := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		info, err := d.readInfo(p)
		if err != nil {
			log.Printf("[STORE] Skipping %s: %v", filepath.Base(p), err)
			continue
		}
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		if !infos[i].Modified.Equal(infos[j].Modified) {
			return infos[i].Modified.After(infos[j].Modified)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete removes a document, its metadata and its image.
func (d *Disk) Delete(id FileID) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(d.metaPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete whiteboard: %w", err)
	}
	if err := os.Remove(d.docPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete whiteboard: %w", err)
	}
	if err := os.Remove(d.ImagePath(imageOf(id))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete whiteboard image: %w", err)
	}
	d.mu.Lock()
	for name, latest := range d.latest {
		if latest == id {
			delete(d.latest, name)
		}
	}
	d.mu.Unlock()
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".whiteboard-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	return nil
}
