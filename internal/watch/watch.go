// Package watch re-runs a callback whenever a source file changes.
//
// The parent directory is watched rather than the file itself, so editors
// and spreadsheet exports that replace the file through a rename are still
// seen. Bursts of events are collapsed into one callback per debounce window.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 500 * time.Millisecond

// Func is called after the file settles. Errors are logged; watching
// continues.
type Func func(ctx context.Context) error

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Triggers  int
	Failures  int
	LastEvent time.Time
}

// Watcher calls a Func whenever one file is written, created or renamed.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       Func

	mu    sync.Mutex
	stats Stats
}

// New watches path. The file need not exist yet, but its directory must.
func New(path string, debounce time.Duration, fn Func) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(abs),
		debounce: debounce,
		fn:       fn,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error only if the watch cannot be set up or fsnotify shuts down.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := slog.With("path", w.path, "debounce", w.debounce)
	logger.Info("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("file event", "op", event.Op.String())
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEvent = time.Now()
			w.mu.Unlock()
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			logger.Error("watch error", "error", err)

		case <-timer.C:
			w.trigger(ctx, logger)
		}
	}
}

// relevant keeps write, create and rename events for the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) trigger(ctx context.Context, logger *slog.Logger) {
	err := w.fn(ctx)

	w.mu.Lock()
	w.stats.Triggers++
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		logger.Warn("change handler failed", "error", err)
	}
}
