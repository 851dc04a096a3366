package bridge

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gamestringer/gsbridge/internal/logger"
)

type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// Watch hot-reloads the given dictionary files whenever they change on
// disk. Reload failures are logged and skipped; the previously loaded
// entries stay in place, so a bad save from an editor never takes the
// bridge down.
func (b *Bridge) Watch(paths ...string) error {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()

	if b.watcher != nil {
		b.stopWatcherLocked()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := fs.Add(p); err != nil {
			fs.Close()
			return err
		}
	}

	w := &watcher{fs: fs, done: make(chan struct{})}
	b.watcher = w
	go b.watchLoop(w)

	logger.Info("Watching dictionary files", "bridge_id", b.id, "paths", strings.Join(paths, ","))
	return nil
}

// Unwatch stops the file watcher. Safe to call when not watching.
func (b *Bridge) Unwatch() {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	b.stopWatcherLocked()
}

func (b *Bridge) stopWatcherLocked() {
	if b.watcher == nil {
		return
	}
	b.watcher.fs.Close()
	<-b.watcher.done
	b.watcher = nil
}

func (b *Bridge) watchLoop(w *watcher) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			b.reloadFile(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("Dictionary watcher error", "bridge_id", b.id, "error", err)
		}
	}
}

func (b *Bridge) reloadFile(path string) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		logger.Debug("Ignoring non-JSON dictionary change", "path", path)
		return
	}
	count, err := b.LoadDictionaryFromJSON(path)
	if err != nil {
		logger.Warn("Hot reload failed, keeping previous entries", "path", path, "error", err)
		return
	}
	logger.Info("Dictionary hot-reloaded", "path", path, "entries", count)
}
