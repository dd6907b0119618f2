// Package store keeps whiteboard documents: on disk for the backend and the
// CLI, and over HTTP for the GUI talking to a backend.
package store

import (
	"context"
	"errors"
	"time"

	"Whiteboard/internal/state"
)

// ErrNotFound is returned when no document exists for an id.
var ErrNotFound = errors.New("whiteboard not found")

// FileID identifies a saved document.
type FileID string

// FileInfo describes a saved document.
type FileInfo struct {
	ID       FileID    `json:"id"`
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	Shapes   int       `json:"shapes"`
	HasImage bool      `json:"hasImage"`
	Image    string    `json:"image,omitempty"` // name under the image endpoint
}

type Saver interface {
	Save(ctx context.Context, filename string, doc state.ShapeList) (FileID, error)
}

type ImageSaver interface {
	SaveImage(ctx context.Context, filename string, doc state.ShapeList) error
}

type Loader interface {
	Load(ctx context.Context, id FileID) (state.ShapeList, error)
}

type Lister interface {
	List(ctx context.Context) ([]FileInfo, error)
}

// Store is everything the board needs from a backend.
type Store interface {
	Saver
	ImageSaver
	Loader
	Lister
}

// Open returns a Client when backendURL is set and a Disk rooted at dir
// otherwise.
func Open(dir, backendURL string) (Store, error) {
	if backendURL != "" {
		return NewClient(backendURL), nil
	}
	d, err := NewDisk(dir)
	if err != nil {
		return nil, err
	}
	return d, nil
}
