// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Rushan4218/restrowtl/internal/logging"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Run watches files and calls fn once per quiet period after any of them
// is written, created, renamed or removed. The parent directories are
// watched so files replaced by rename are still seen. Errors from fn are
// logged and watching continues. Run returns nil when ctx is done.
func Run(ctx context.Context, files []string, debounce time.Duration, fn func(context.Context) error) error {
	if len(files) == 0 {
		return errors.New("watch: no files to watch")
	}
	log := logging.FromContext(logging.WithComponent(ctx, "watch"))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Debug().Str("dir", dir).Msg("watching")
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !targets[abs] || ev.Op == fsnotify.Chmod {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("change detected")
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Warn().Err(err).Msg("regeneration failed")
			}
		}
	}
}
