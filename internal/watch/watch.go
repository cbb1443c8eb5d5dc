// Package watch re-runs a callback whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Tiliavir/collection-log-advisor/internal/logger"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls OnChange after Path was written, created or renamed into
// place. The parent directory is watched so that editors replacing the
// file atomically are noticed too.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context) error
}

// File watches path with the default debounce until ctx is done.
func File(ctx context.Context, path string, onChange func(ctx context.Context) error) error {
	w := Watcher{Path: path, Debounce: DefaultDebounce, OnChange: onChange}
	return w.Run(ctx)
}

// Run blocks until ctx is done. Callback errors are logged and do not
// stop the watcher.
func (w Watcher) Run(ctx context.Context) (err error) {
	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	log := logger.Get(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug().Str("file", abs).Str("op", event.Op.String()).Msg("file changed")
			timer.Reset(debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(werr).Str("file", abs).Msg("file watcher error")
		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				log.Error().Err(err).Str("file", abs).Msg("reload failed")
			}
		}
	}
}
