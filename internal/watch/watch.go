// Package watch re-runs a handler whenever a configuration file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/techdocs-core/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one run.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called after the watched file settles. Errors are logged and
// watching continues.
type Handler func(ctx context.Context) error

// ConfigWatcher watches a single file by watching its directory, which
// survives editors that replace the file on save.
type ConfigWatcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// Option configures a ConfigWatcher.
type Option func(*ConfigWatcher)

// WithDebounce sets how long the file must be quiet before the handler runs.
func WithDebounce(d time.Duration) Option { return func(w *ConfigWatcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(w *ConfigWatcher) { w.logger = l } }

// New creates a watcher for path.
func New(path string, handler Handler, opts ...Option) (*ConfigWatcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch handler is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &ConfigWatcher{
		path:     absPath,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *ConfigWatcher) Path() string { return w.path }

// Run watches until ctx is done. Handler runs are serialised on the calling
// goroutine.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}
	w.logger.Info("Watching configuration", logfields.Path(w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping configuration watcher")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.logger.Debug("Config file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				timer.Reset(w.debounce)
			case event.Has(fsnotify.Remove):
				w.logger.Warn("Config file removed", logfields.Path(event.Name))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Config watcher error", logfields.Error(err))

		case <-timer.C:
			w.logger.Info("Configuration changed, re-running", logfields.Path(w.path))
			if err := w.handler(ctx); err != nil {
				w.logger.Error("Re-run failed", logfields.Error(err))
			}
		}
	}
}
