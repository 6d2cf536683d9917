// Package watch re-runs a callback when a document file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before the callback runs
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a single file. It watches the parent directory so that
// editors which save by renaming a temp file over the original still
// trigger it.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending time.Time // zero when nothing is pending
}

// New creates a watcher for path
func New(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, logger: logger, watcher: fw}, nil
}

// Run calls onChange after each burst of writes to the file until ctx is
// done. Errors from onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("error closing watcher", zap.Error(err))
		}
	}()

	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-tick.C:
			if !w.due(now) {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", w.path))
			if err := onChange(w.path); err != nil {
				w.logger.Error("change handler failed", zap.String("path", w.path), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// due reports whether a pending change has been quiet for the debounce
// period, and clears it when it has
func (w *Watcher) due(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}
