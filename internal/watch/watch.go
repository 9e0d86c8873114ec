// Package watch re-runs an action whenever a single file changes.
//
// The parent directory is watched rather than the file, so editors that
// save by writing a new file and renaming it over the old one still
// trigger. Bursts of events inside the debounce window collapse into one
// call.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"halfshift/internal/logging"
)

// Action is called once per debounced change.
type Action func(ctx context.Context) error

// Stats tracks watcher activity.
type Stats struct {
	Events   int
	Runs     int
	Failures int
	LastRun  time.Time
	LastErr  error
}

// Watcher watches one file and calls an Action when it changes.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	action   Action
	logger   *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a Watcher for path. A zero debounce fires on every event.
func New(path string, debounce time.Duration, action Action, logger *zap.Logger) (*Watcher, error) {
	if action == nil {
		return nil, fmt.Errorf("watch: action required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		action:   action,
		logger:   logging.For(logger, logging.CategoryWatch),
	}, nil
}

// Stats returns a snapshot of the watcher's counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is done. Action errors are logged and counted; they
// do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}
	w.logger.Info("watching", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			w.logger.Debug("event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
			pending = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.fire(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) fire(ctx context.Context) {
	err := w.action(ctx)

	w.mu.Lock()
	w.stats.Runs++
	w.stats.LastRun = time.Now()
	w.stats.LastErr = err
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("run failed", zap.Error(err))
		return
	}
	w.logger.Debug("run finished")
}
