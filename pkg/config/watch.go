package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Watch reloads the configuration file whenever it changes and invokes
// onChange with the freshly loaded configuration. It blocks until ctx is
// cancelled. Reload failures are logged and the previous configuration
// stays in effect.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Config)) error {
	if path == "" {
		return errors.New("no configuration file to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create configuration watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return errors.Wrap(err, "failed to watch configuration file")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("Configuration reload failed",
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			logger.Info("Configuration reloaded", zap.String("path", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Configuration watcher error", zap.Error(err))
		}
	}
}
