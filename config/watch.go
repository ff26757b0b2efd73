package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"logship/util"
)

// reloadDebounce is how long the watcher waits after the last change
// event before re-reading the file.  A plain save truncates the file
// and then writes it, firing an event while the file is empty or half
// written; coalescing events until the save settles means only the
// final content is parsed.
const reloadDebounce = 100 * time.Millisecond

// Watch monitors path for changes and calls onChange with the newly
// loaded Config each time the file settles after a write.  It runs
// until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: editors
// and deploy tools often replace the file by rename, which silently
// drops an inode-based watch on the file.
//
// If a reload fails (invalid TOML, or the file is empty mid-save), the
// error is logged and the previous config remains active and Watch
// does not call onChange.  The main use is swapping proxy or TLS
// settings on a running shipper without restarting it.
func Watch(ctx context.Context, path string, logger *util.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	base := filepath.Base(path)

	logger.Verbose("config: watching %s for changes", path)

	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			// Only reload on write or create events.  Create covers
			// the rename of an atomic save landing on the path.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
				logger.Debug("config: %s empty or unreadable after change, skipping reload", path)
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Error("config: reload of %s failed, keeping previous config: %v", path, err)
				continue
			}
			logger.Info("config: reloaded %s", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config: watcher error: %v", err)
		}
	}
}
