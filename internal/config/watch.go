package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"gosuda.org/dodesc/internal/logging"
)

// Watch reloads the file at path whenever it changes and hands every
// configuration that loads and validates to fn. Invalid edits are logged
// and skipped. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file are followed.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	path = filepath.Clean(path)
	log := logging.Named("config")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != path || !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			c, err := Load(path)
			if err != nil {
				log.Warn("ignoring configuration change", "path", path, "err", err)
				continue
			}
			log.Info("configuration reloaded", "path", path)
			fn(c)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watch failed", "path", path, "err", err)
		}
	}
}
