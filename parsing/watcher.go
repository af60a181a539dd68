package parsing

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads registered scripts when their files change on disk.
type Watcher struct {
	loader *ScriptLoader
	fs     *fsnotify.Watcher

	// OnReload, when set, observes the result of every triggered reload.
	OnReload func(*ScriptLoadResult)
}

// NewWatcher creates a watcher bound to this loader's registry.
func (l *ScriptLoader) NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{loader: l, fs: fs}, nil
}

// Watch adds a file or directory to the watch set.
func (w *Watcher) Watch(path string) error {
	return w.fs.Add(path)
}

// Run blocks, dispatching reloads until the context is cancelled or the
// underlying watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handle(ev.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// handle reloads the script registered at path, if any.
func (w *Watcher) handle(path string) {
	sc, ok := w.loader.GetScript(path)
	if !ok {
		return
	}
	result := w.loader.Reload(sc)
	if w.OnReload != nil {
		w.OnReload(result)
	}
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
