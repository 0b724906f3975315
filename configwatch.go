package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads the harness config file whenever it changes on
// disk and hands the new Config to a callback. Paired with a
// ScheduledRunner this lets the only-filter or timing bounds change
// between recurring runs without restarting the host application.
//
// The watcher watches the file's directory rather than the file itself,
// since editors and config writers commonly replace the file (which would
// otherwise drop the watch).
type ConfigWatcher struct {
	path     string
	logger   Logger
	onChange func(*Config)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}

	// Guarded separately: reload runs on the watch goroutine, which must
	// not contend with Stop holding mu while draining that goroutine.
	obsMu    sync.Mutex
	observer Observer
}

// NewConfigWatcher creates a watcher for the config file at path. The
// onChange callback receives each successfully reloaded Config; reload
// failures are logged and skipped.
func NewConfigWatcher(path string, logger Logger, onChange func(*Config)) *ConfigWatcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ConfigWatcher{
		path:     path,
		logger:   logger,
		onChange: onChange,
	}
}

// Observe registers an observer notified with a config.reloaded event
// after each successful reload. A nil observer removes the current one.
// Observer errors are logged, never propagated.
func (w *ConfigWatcher) Observe(observer Observer) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()
	w.observer = observer
}

// Start begins watching. It is an error to start a watcher twice without
// stopping it in between.
func (w *ConfigWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return ErrConfigWatcherStarted
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching config directory: %w", err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	go w.loop(watcher, w.done)

	w.logger.Info("Watching harness config", "path", w.path)
	return nil
}

// Stop ends watching and releases the underlying filesystem watcher.
// It is idempotent.
func (w *ConfigWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	w.watcher = nil
	w.done = nil
	if err != nil {
		return fmt.Errorf("closing filesystem watcher: %w", err)
	}
	return nil
}

func (w *ConfigWatcher) loop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload harness config", "path", w.path, "error", err)
		return
	}
	w.logger.Info("Harness config reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}

	w.obsMu.Lock()
	observer := w.observer
	w.obsMu.Unlock()
	if observer != nil {
		event := NewCloudEvent(EventTypeConfigReloaded, map[string]any{"path": w.path})
		if err := observer.OnEvent(context.Background(), event); err != nil {
			w.logger.Warn("Observer failed to handle config reload",
				"observer", observer.ObserverID(), "error", err)
		}
	}
}
