package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/logger"
)

// WatchFixtures reloads the fixtures file each time it is written and
// passes the competitions to onChange. It runs until ctx is cancelled.
// A file that fails to parse is logged and skipped.
func WatchFixtures(ctx context.Context, path string, onChange func(context.Context, []model.Competition)) error {
	log := logger.Get().Named("fixtures")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: watcher: %w", ErrLoadConfig, err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}
	log.Info(ctx, "watching fixtures", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic saves show up as create after a rename.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			competitions, err := LoadFixtures(path)
			if err != nil {
				log.Error(ctx, "fixture reload failed", logger.String("path", path), logger.Error(err))
				continue
			}
			log.Info(ctx, "fixtures reloaded",
				logger.String("path", path),
				logger.Int("competitions", len(competitions)),
			)
			onChange(ctx, competitions)

			// Re-add in case the save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "fixture watcher error", logger.Error(err))
		}
	}
}
