package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/i3-app-list/i3-app-list/internal/config"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

// DefaultDebounce is how long the settings file must stay quiet before it
// is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// SettingsWatcher reloads the settings file when it changes on disk.
// Files that fail to load or validate are logged and skipped.
type SettingsWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	logger    *slog.Logger
	reloads   chan *models.Settings
	done      chan struct{}
	stopOnce  sync.Once

	// Debounce is the quiet period before a reload. Set before Start.
	Debounce time.Duration

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewSettingsWatcher creates a watcher for the settings file at path.
func NewSettingsWatcher(path string, logger *slog.Logger) (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsWatcher{
		fsWatcher: fsWatcher,
		path:      filepath.Clean(path),
		logger:    logger,
		reloads:   make(chan *models.Settings, 1),
		done:      make(chan struct{}),
		Debounce:  DefaultDebounce,
	}, nil
}

// Reloads returns the channel receiving freshly loaded settings.
func (w *SettingsWatcher) Reloads() <-chan *models.Settings {
	return w.reloads
}

// Start starts watching. The parent directory is watched rather than the
// file, so editors that replace the file on save are followed.
func (w *SettingsWatcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *SettingsWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()
		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
	})
}

func (w *SettingsWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "error", err)
		}
	}
}

func (w *SettingsWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	// Atomic saves show up as Create or Rename on the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("settings file changed", "op", event.Op.String())
	w.debounce(w.reload)
}

func (w *SettingsWatcher) debounce(fn func()) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, fn)
}

func (w *SettingsWatcher) reload() {
	settings, err := config.LoadSettings(w.path)
	if err != nil {
		w.logger.Warn("ignoring settings change", "path", w.path, "error", err)
		return
	}

	// Only the newest settings matter.
	select {
	case <-w.reloads:
	default:
	}
	select {
	case w.reloads <- settings:
	case <-w.done:
	}
}
