// Package watcher provides file system watching with debouncing for the
// extension manifest directory. It reports manifest files that appear or
// change after the initial scan so late registrations can be delivered.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a manifest directory and reports changed manifest paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	changes   chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Dir         string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a new manifest directory watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.DebounceDur
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		debounce:  debounce,
		changes:   make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the manifest directory. The returned channel receives
// batches of manifest paths that were created or rewritten, coalesced per
// debounce window.
func (w *Watcher) Start() (<-chan []string, error) {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	go w.loop()

	return w.changes, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// IsManifest reports whether path looks like an extension manifest.
func IsManifest(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !IsManifest(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			pending = map[string]struct{}{}
			timer = nil
			timerC = nil

			select {
			case w.changes <- batch:
			case <-w.done:
				return
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// fsnotify errors are transient; keep watching.
		}
	}
}
