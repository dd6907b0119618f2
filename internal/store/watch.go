package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn for every document saved into the store directory, by this
// process or any other, until ctx is cancelled.
func (d *Disk) Watch(ctx context.Context, fn func(FileInfo)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(d.dir); err != nil {
		return fmt.Errorf("watching %s: %w", d.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// saves land by rename, which shows up as Create on the target
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, metaExt) {
				continue
			}
			info, err := d.readInfo(event.Name)
			if err != nil {
				continue
			}
			fn(info)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[STORE] Watch error: %v", err)
		}
	}
}
