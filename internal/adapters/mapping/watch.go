package mapping

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the mapping file at path whenever it is written or
// replaced and passes the result to onChange. Files that fail to parse are
// logged and ignored. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, logger ports.Logger, onChange func(*File)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				f, err := Load(path)
				if err != nil {
					logger.Warn("Ignoring invalid mapping file", "path", path, "error", err)
					continue
				}
				logger.Info("Mapping file reloaded",
					"path", path,
					"slot_names", len(f.SlotNames),
					"substitutions", len(f.Substitutions),
				)
				onChange(f)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Mapping watcher error", "error", err)
			}
		}
	}()
	return nil
}
