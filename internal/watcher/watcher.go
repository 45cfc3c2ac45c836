// Package watcher observes the Clear Aligner data directory and triggers
// project rebuilds when a database file changes on disk.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/source"
)

// DefaultDebounce is the wait after the last file event before a rebuild is
// requested. Aligner syncs touch a database many times in quick succession;
// the debounce coalesces them into one rebuild.
const DefaultDebounce = 2 * time.Second

// Refresher accepts asynchronous rebuild requests. The registry satisfies
// this.
type Refresher interface {
	Refresh(projectID string) (bool, error)
}

// Watcher debounces file events per project and forwards them as refresh
// requests.
type Watcher struct {
	dir       string
	debounce  time.Duration
	refresher Refresher
	logger    *slog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates a watcher over one data directory.
func New(dir string, debounce time.Duration, refresher Refresher, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.InternalError("cannot create file watcher", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, errors.ConfigError("cannot watch data directory: "+dir, err)
	}

	return &Watcher{
		dir:       dir,
		debounce:  debounce,
		refresher: refresher,
		logger:    logger,
		fsw:       fsw,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Run consumes file events until the context is canceled or the watcher is
// stopped. It is meant to run in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name := filepath.Base(event.Name)
	if !strings.HasPrefix(name, "clear-aligner-") || !strings.HasSuffix(name, ".sqlite") {
		return
	}
	if strings.Contains(name, "-updated") {
		// Mid-sync working copy; the final rename onto the real file will
		// arrive as its own event.
		return
	}

	projectID := source.ProjectIDForPath(event.Name)
	w.schedule(projectID)
}

// schedule arms (or re-arms) the per-project debounce timer.
func (w *Watcher) schedule(projectID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	if timer, ok := w.timers[projectID]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.timers[projectID] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, projectID)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}

		w.logger.Info("change_detected", slog.String("project", projectID))
		if _, err := w.refresher.Refresh(projectID); err != nil {
			w.logger.Warn("refresh_rejected",
				slog.String("project", projectID),
				slog.String("error", err.Error()))
		}
	})
}

// Stop halts event handling and cancels pending debounce timers. Safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for id, timer := range w.timers {
		timer.Stop()
		delete(w.timers, id)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
