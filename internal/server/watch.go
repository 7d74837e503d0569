package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watcher keeps the registry in sync with a dataset directory: created or
// rewritten files are reloaded, removed or renamed-away files are dropped.
type watcher struct {
	registry *Registry
	dir      string
	logger   *log.Logger
	fs       *fsnotify.Watcher
}

func newWatcher(registry *Registry, dir string, logger *log.Logger) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("dataset watcher add %s: %w", dir, err)
	}
	return &watcher{registry: registry, dir: dir, logger: logger, fs: fs}, nil
}

// run processes filesystem events until ctx is canceled.
func (w *watcher) run(ctx context.Context) {
	defer w.fs.Close()
	w.logger.Info("watching dataset dir", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watcher error", "error", err)
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if !strings.HasSuffix(ev.Name, DatasetExt) {
		return
	}
	name := strings.TrimSuffix(filepath.Base(ev.Name), DatasetExt)

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.registry.Delete(name)
		datasetsLoaded.Set(float64(w.registry.Len()))
		w.logger.Info("dropped dataset", "name", name)

	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		if err := w.registry.LoadFile(ev.Name); err != nil {
			// Writes arrive in bursts; a half-written file fails decode
			// and the final write reloads it.
			w.logger.Warn("reload failed", "name", name, "error", err)
			return
		}
		datasetsLoaded.Set(float64(w.registry.Len()))
		w.logger.Info("reloaded dataset", "name", name)
	}
}
