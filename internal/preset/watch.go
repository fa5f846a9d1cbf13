package preset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads one preset file whenever it changes on disk. The
// containing directory is watched so editors that replace the file on
// save are noticed too.
type Watcher struct {
	path string
	w    *fsnotify.Watcher
}

// NewWatcher starts watching path. Events are delivered by Run.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("preset: watch: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("preset: watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, w: w}, nil
}

// Path returns the absolute path of the watched file.
func (pw *Watcher) Path() string { return pw.path }

// Run calls fn with the reloaded preset, or the load error, after every
// write to the file. It returns when ctx is done and closes the watcher.
func (pw *Watcher) Run(ctx context.Context, fn func(Preset, error)) error {
	defer func() { _ = pw.w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-pw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != pw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fn(Load(pw.path))
		case err, ok := <-pw.w.Errors:
			if !ok {
				return nil
			}
			fn(Preset{}, fmt.Errorf("preset: watch: %w", err))
		}
	}
}
