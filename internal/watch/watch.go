// Package watch reruns the rewrite pass whenever the markdown files of the
// content directory change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/paperfront/internal/storage"
)

// RunFunc performs one rewrite pass.
type RunFunc func(ctx context.Context) error

// Snapshot maps each markdown filename to the checksum of its content.
type Snapshot map[string]string

// Take lists store and checksums every file except ignore, which is never read.
func Take(store storage.Provider, ignore string) (Snapshot, error) {
	names, err := store.List()
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(names))
	for _, name := range names {
		if name == ignore {
			continue
		}
		data, err := store.Read(name)
		if err != nil {
			return nil, err
		}
		snap[name] = storage.Checksum(data)
	}
	return snap, nil
}

// Watcher drives fn from fsnotify events on a single content directory.
type Watcher struct {
	Store    storage.Provider
	Root     string
	Index    string // generated file; its events never trigger a run
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch runs fn once and then again after every settled burst of changes to
// the markdown files in Root, until ctx is cancelled. A burst that leaves the
// directory identical to the state after the previous run (the pass's own
// writes) is ignored. Errors from fn are logged, not returned.
func (w *Watcher) Watch(ctx context.Context, fn RunFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.Root, err)
	}
	w.Logger.Info("watcher: started", slog.String("root", w.Root))

	last := w.run(ctx, fn)

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(w.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.Logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			snap, err := Take(w.Store, w.Index)
			if err != nil {
				w.Logger.Warn("watcher: snapshot failed", slog.String("error", err.Error()))
				continue
			}
			if maps.Equal(snap, last) {
				w.Logger.Debug("watcher: no content change")
				continue
			}
			last = w.run(ctx, fn)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.Logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// run executes fn and returns the snapshot taken right after it.
func (w *Watcher) run(ctx context.Context, fn RunFunc) Snapshot {
	if err := fn(ctx); err != nil {
		w.Logger.Error("watcher: run failed", slog.String("error", err.Error()))
	}
	snap, err := Take(w.Store, w.Index)
	if err != nil {
		w.Logger.Warn("watcher: snapshot failed", slog.String("error", err.Error()))
	}
	return snap
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(ev.Name)
	return filepath.Ext(name) == ".md" && name != w.Index
}
