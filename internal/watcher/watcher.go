package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher collects rapid file changes and reports them once things
// settle. Every new change restarts the quiet period.
type FileWatcher struct {
	clock         clock.Clock
	debounceDelay time.Duration

	// Debouncing state
	timer        *clock.Timer
	timerMu      sync.Mutex
	pendingPaths map[string]struct{}
	stopped      bool

	// Callback when changes are ready
	onChange func([]string)
}

// Config holds watcher configuration.
type Config struct {
	DebounceDelay time.Duration
	Clock         clock.Clock
}

// NewWatcher creates a file watcher with the specified debounce delay.
// The onChange callback is called with the changed paths after debouncing.
func NewWatcher(debounceDelay time.Duration, onChange func([]string)) *FileWatcher {
	return NewWatcherWithConfig(Config{DebounceDelay: debounceDelay}, onChange)
}

// NewWatcherWithConfig creates a watcher with custom configuration.
func NewWatcherWithConfig(cfg Config, onChange func([]string)) *FileWatcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounce
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return &FileWatcher{
		clock:         cfg.Clock,
		debounceDelay: cfg.DebounceDelay,
		pendingPaths:  make(map[string]struct{}),
		onChange:      onChange,
	}
}

// FileChanged notifies the watcher of a file change.
// Multiple rapid calls are debounced into a single onChange callback.
func (w *FileWatcher) FileChanged(path string) {
	w.FilesChanged([]string{path})
}

// FilesChanged notifies the watcher of multiple file changes.
func (w *FileWatcher) FilesChanged(paths []string) {
	if len(paths) == 0 {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.stopped {
		return
	}
	for _, path := range paths {
		w.pendingPaths[path] = struct{}{}
	}

	// Reset timer
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = w.clock.AfterFunc(w.debounceDelay, w.processPending)
}

// Pending returns the number of changes waiting for the quiet period.
func (w *FileWatcher) Pending() int {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	return len(w.pendingPaths)
}

// Stop shuts down the watcher. Pending changes are dropped.
func (w *FileWatcher) Stop() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pendingPaths = make(map[string]struct{})
}

// processPending is called after the debounce delay.
func (w *FileWatcher) processPending() {
	w.timerMu.Lock()

	paths := make([]string, 0, len(w.pendingPaths))
	for path := range w.pendingPaths {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	w.pendingPaths = make(map[string]struct{})
	w.timer = nil
	stopped := w.stopped

	w.timerMu.Unlock()

	// Trigger callback (outside lock)
	if !stopped && len(paths) > 0 && w.onChange != nil {
		w.onChange(paths)
	}
}

// WatchFile feeds changes of a single file into w until ctx is done.
//
// The parent directory is watched rather than the file itself: editors
// often save by writing a new file and renaming it over the old one, which
// would silently end a watch on the file.
func WatchFile(ctx context.Context, path string, w *FileWatcher, log zerolog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Debug().Str("path", abs).Msg("watching file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if relevant(event, abs) {
				w.FileChanged(abs)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
