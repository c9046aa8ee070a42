package tone

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog from path whenever the file is written, created,
// renamed or removed. It watches the parent directory so editors that replace
// the file atomically are picked up. Blocks until ctx is done.
func (c *Catalog) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create tones watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debugf("Tones file changed (%s), reloading", event.Op)
			if err := c.LoadFile(path); err != nil {
				logger.Error("Invalid tones file, using bundled tones", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Tones watcher error", err)
		}
	}
}
