package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keys/internal/input/keymap"
)

// ReloadFunc is called with the watched path after it changes.
type ReloadFunc func(path string) error

// BindingsReloader reloads a spec file into reg. Handlers stay registered
// and follow their binding names. Bindings named in keep are defined
// elsewhere and survive reloads.
func BindingsReloader(reg *keymap.Registry, keep ...string) ReloadFunc {
	return func(path string) error {
		return keymap.ReloadSpecFile(reg, path, keep...)
	}
}

// Watcher calls a ReloadFunc whenever a file changes.
//
// The parent directory is watched rather than the file itself, so
// editors that save by renaming a temporary file are seen too. Bursts of
// events within the debounce delay trigger one reload.
type Watcher struct {
	path   string
	reload ReloadFunc
	delay  time.Duration
	logger *slog.Logger
	notify func(error)

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	done chan struct{}
	wg   sync.WaitGroup

	reloads  atomic.Int64
	failures atomic.Int64
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the delay between the last event and the reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithNotify is called after every reload with its result.
func WithNotify(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// NewWatcher starts watching path.
func NewWatcher(path string, reload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		reload: reload,
		delay:  200 * time.Millisecond,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", abs, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of reload attempts and how many failed.
func (w *Watcher) Reloads() (total, failed int64) {
	return w.reloads.Load(), w.failures.Load()
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("[watch] watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	w.reloads.Add(1)
	err := w.reload(w.path)
	if err != nil {
		w.failures.Add(1)
		w.logger.Warn("[watch] reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("[watch] reloaded", "path", w.path)
	}
	if w.notify != nil {
		w.notify(err)
	}
}
