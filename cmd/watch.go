package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchOpts     runOptions
	watchDebounce time.Duration // Quiet period before a change triggers a rerun
)

// watchCmd reruns the simulation whenever one of its input files changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the simulation whenever an input file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, status := cmd.OutOrStdout(), cmd.ErrOrStderr()

		files, err := inputFiles(watchOpts)
		if err != nil {
			return err
		}
		if _, err := simulate(ctx, out, status, watchOpts); err != nil {
			_, _ = fmt.Fprintf(status, "run failed: %v\n", err)
		}
		_, _ = fmt.Fprintf(status, "Watching %d file(s); press Ctrl+C to stop\n", len(files))

		resolve := func() ([]string, error) { return inputFiles(watchOpts) }
		return watchInputs(ctx, resolve, watchDebounce, func(path string) {
			_, _ = fmt.Fprintf(status, "%s changed, re-running\n", path)
			if _, err := simulate(ctx, out, status, watchOpts); err != nil {
				_, _ = fmt.Fprintf(status, "run failed: %v\n", err)
			}
		})
	},
}

func init() {
	addRunFlags(watchCmd, &watchOpts)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before a change triggers a rerun")
}

// watchInputs calls onChange with the changed path after writes to any of the
// files returned by resolve settle for debounce. Calls are serialized on the
// watching goroutine. The watched set is resolved again after every change, so
// a scenario edit that points at other input files moves the watch with it.
// It returns nil when ctx is cancelled.
func watchInputs(ctx context.Context, resolve func() ([]string, error), debounce time.Duration, onChange func(path string)) error {
	files, err := resolve()
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	// track replaces the watched set. Directories are watched; editors often
	// replace files instead of writing them.
	track := func(files []string) error {
		next := make(map[string]bool, len(files))
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}
			next[abs] = true
			dir := filepath.Dir(abs)
			if dirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory: %w", err)
			}
			dirs[dir] = true
		}
		watched = next
		return nil
	}
	if err := track(files); err != nil {
		return err
	}

	fired := make(chan string, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			logrus.Debugf("Input %s: %s", abs, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fired <- abs:
				default:
				}
			})

		case path := <-fired:
			onChange(path)
			files, err := resolve()
			if err == nil {
				err = track(files)
			}
			if err != nil {
				logrus.Warnf("Keeping the previous watch set: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("File watcher error: %v", err)
		}
	}
}
