package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads the config file when it changes and publishes the new
// [display] section.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *log.Logger

	updates chan DisplayConfig
	notify  func()

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher watches the config file at path. The file does not need to
// exist yet; its directory does.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:    filepath.Clean(path),
		watcher: fsw,
		logger:  logger,
		updates: make(chan DisplayConfig, 1),
		notify:  func() {},
		closeCh: make(chan struct{}),
	}, nil
}

// Start begins processing file events. notify is called after each update
// is published.
func (w *Watcher) Start(notify func()) {
	if notify != nil {
		w.notify = notify
	}
	w.wg.Add(1)
	go w.processLoop()
}

// Updates delivers reloaded display settings. Only the latest pending
// update is kept.
func (w *Watcher) Updates() <-chan DisplayConfig {
	return w.updates
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "err", err)

		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "err", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path, "cursor_glyph", cfg.Display.CursorGlyph)

	// Replace any update the loop has not picked up yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg.Display
	w.notify()
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
