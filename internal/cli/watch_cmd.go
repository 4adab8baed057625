package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-import snapshot files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			targets := make(map[string]bool, len(args))
			for _, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", a, err)
				}
				targets[abs] = true
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer watcher.Close()

			// Editors often replace files, so watch directories instead.
			dirs := make(map[string]bool)
			for path := range targets {
				dir := filepath.Dir(path)
				if dirs[dir] {
					continue
				}
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}
				dirs[dir] = true
			}

			syncFiles(ctx, app, cmd.OutOrStdout(), cmd.ErrOrStderr(), sortedKeys(targets))
			return watchLoop(ctx, watcher, targets, debounce, func(paths []string) {
				syncFiles(ctx, app, cmd.OutOrStdout(), cmd.ErrOrStderr(), paths)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Wait this long after the last change before importing")

	return cmd
}

// watchLoop batches change events for targets and calls sync once events
// have been quiet for the debounce interval. It returns when ctx ends or
// the watcher closes.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]bool, debounce time.Duration, sync func([]string)) error {
	pending := make(map[string]bool)
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
			if !isSnapshotChange(ev, targets) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching files: %w", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := sortedKeys(pending)
			clear(pending)
			sync(paths)
		}
	}
}

func isSnapshotChange(ev fsnotify.Event, targets map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return targets[filepath.Clean(ev.Name)]
}

// syncFiles imports paths and prints a build summary for each new snapshot.
// Failures are reported and do not stop the watch.
func syncFiles(ctx context.Context, app *App, out, errOut io.Writer, paths []string) {
	stamp := formatter.Dim(app.now().Format("15:04:05"))
	result, err := app.Snapshots.ImportFiles(ctx, paths...)
	if err != nil {
		fmt.Fprintf(errOut, "%s %s %v\n", stamp, formatter.StyleRed.Render("✖"), err)
		return
	}
	for _, s := range result.Snapshots {
		view, err := app.Trees.Build(ctx, s.ID)
		if err != nil {
			fmt.Fprintf(errOut, "%s %s %s: %v\n", stamp, formatter.StyleRed.Render("✖"), s.Source, err)
			continue
		}
		fmt.Fprintf(out, "%s %s %s  %s\n", stamp, formatter.StyleGreen.Render("✔"), s.Source, formatter.FormatBuildSummary(view.Result))
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
