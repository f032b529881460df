package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/waypoint/pkg/errors"
)

// WatchDelay debounces bursts of file events into one reload.
var WatchDelay = 200 * time.Millisecond

// Watch calls fn with the reloaded configuration every time the file at
// path changes, until ctx is done. Files that fail to load are logged and
// skipped; the previous configuration stays in effect.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file on save are noticed.
func Watch(ctx context.Context, path string, logger *log.Logger, fn func(*File)) error {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "watch %s", filepath.Dir(abs))
	}
	logger.Debug("watching config", "path", abs)

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("config file changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(WatchDelay)
			reload = timer.C

		case <-reload:
			reload = nil
			f, err := Load(abs)
			if err != nil {
				logger.Warn("ignoring invalid config", "path", abs, "error", err)
				continue
			}
			logger.Info("config reloaded", "path", abs)
			fn(f)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
