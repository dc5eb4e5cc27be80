// Package watchcfg reloads tunable settings when the config file changes.
package watchcfg

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc re-reads the config file and returns the desired log level.
type ReloadFunc func() (slog.Level, error)

// Watch observes the config file until ctx is cancelled, debouncing editor
// write bursts. On each change it calls reload and applies the returned
// log level to level. Only the log level is applied live; everything else
// (ports, database path, auth) requires a restart.
func Watch(ctx context.Context, configPath string, level *slog.LevelVar, reload ReloadFunc, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: many editors replace the file on
	// save, which would otherwise silently drop the watch.
	if err := w.Add(filepath.Dir(configPath)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", configPath))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	applyReload := func() {
		lvl, err := reload()
		if err != nil {
			logger.Warn("config watcher: reload failed, keeping current settings",
				slog.String("error", err.Error()))
			return
		}
		if lvl != level.Level() {
			logger.Info("config watcher: log level changed",
				slog.String("from", level.Level().String()),
				slog.String("to", lvl.String()))
			level.Set(lvl)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-reloadCh:
			applyReload()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(configPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: error", slog.String("error", err.Error()))
		}
	}
}
