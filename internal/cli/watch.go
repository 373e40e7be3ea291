package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Iteration does one round of work and returns the files it depends on.
// On error the previously watched files are kept.
type Iteration func(ctx context.Context) ([]string, error)

// WatchOptions configures RunWatch.
type WatchOptions struct {
	// Paths are watched before the first iteration reports its own.
	Paths []string
	// Debounce is how long to wait for more changes before re-running. Default: 100ms.
	Debounce time.Duration
	Logger   *slog.Logger
	// Messages receives the ">>>" status lines. Nil silences them.
	Messages io.Writer
}

// RunWatch runs iteration, then runs it again every time one of its files
// changes, until ctx is cancelled. Cancellation is not an error.
func RunWatch(ctx context.Context, opts WatchOptions, iteration Iteration) error {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Messages == nil {
		opts.Messages = io.Discard
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	w := &watchSet{watcher: watcher, files: map[string]bool{}, dirs: map[string]bool{}}
	if err := w.set(opts.Paths); err != nil {
		return err
	}

	for {
		files, err := iteration(ctx)
		if err != nil {
			opts.Logger.Error("iteration failed", "error", err)
			SystemMessage(opts.Messages, "Error: %v", err)
		} else if err := w.set(files); err != nil {
			return err
		}

		if len(w.files) == 0 {
			return fmt.Errorf("nothing to watch")
		}

		SystemMessage(opts.Messages, "Waiting for changes...")
		changed, ok := w.wait(ctx, opts.Debounce, opts.Logger)
		if !ok {
			opts.Logger.Info("stopping watcher")
			return nil
		}
		opts.Logger.Info("change detected, reloading", "path", changed)
		SystemMessage(opts.Messages, "Change detected in '%s'.", filepath.Base(changed))
	}
}

// watchSet tracks files by watching their directories, so editors that
// save through rename-and-replace are still seen.
type watchSet struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
}

func (w *watchSet) set(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", p, err)
		}
		files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files = files
	return nil
}

// wait blocks until a watched file changes and the debounce window passes quietly.
// It reports false once ctx is done.
func (w *watchSet) wait(ctx context.Context, debounce time.Duration, logger *slog.Logger) (string, bool) {
	var (
		changed string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return "", false
		case <-fire:
			return changed, true
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", false
			}
			logger.Warn("watcher error", "error", err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return "", false
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] || ev.Op == fsnotify.Chmod {
				continue
			}
			changed = name
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		}
	}
}
