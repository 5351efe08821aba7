package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/quotevault/quotevault/pkg/telemetry"
)

// Watch monitors the config file at path and invokes onChange with the
// freshly loaded configuration whenever the file is written or replaced.
// A file that fails to load after a change is reported and skipped, so an
// editor mid-save never kills a running server. Watch blocks until ctx is
// cancelled.
func Watch(ctx context.Context, path string, logger *telemetry.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files via rename,
	// which drops a watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.WithError(err).Warn("ignoring config change that failed to load")
				continue
			}
			logger.Info("configuration reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("config watcher error")
		}
	}
}
