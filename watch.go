package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/pkg/scenario"
)

// runWatch runs s once, then again each time its input or expected file is
// written, until ctx is cancelled. Events for any other file, including the
// scenario's own output, are ignored. Run errors are printed and do not end
// the watch.
func runWatch(ctx context.Context, out io.Writer, runner *scenario.Runner, s scenario.Scenario, debounce time.Duration, logger *zap.SugaredLogger) error {
	logger = logging.OrNamed(logger, "watch")

	targets, dirs, err := watchTargets(s.InputPath, s.ExpectedPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	report := func() {
		o, err := runner.Run(s)
		if err != nil {
			logger.Warnw("run failed", "error", err)
			fmt.Fprintf(out, "ERROR %s: %v\n", s.Name, err)
			return
		}
		printResult(out, s.Name, o.Result, false)
	}

	report()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(evt.Name)] {
				continue
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugw("change detected", "path", evt.Name, "op", evt.Op.String())
			fire = time.After(debounce)
		case <-fire:
			fire = nil
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", "error", err)
		}
	}
}

func watchTargets(paths ...string) (map[string]bool, []string, error) {
	targets := make(map[string]bool, len(paths))
	var dirs []string
	seen := map[string]bool{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return targets, dirs, nil
}
