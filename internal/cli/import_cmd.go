package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var replace, yes bool

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import flat snapshot files (JSON or YAML)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			before, err := app.Snapshots.List(ctx)
			if err != nil {
				return err
			}

			result, err := app.Snapshots.ImportFiles(ctx, args...)
			if err != nil {
				return err
			}
			for _, s := range result.Snapshots {
				fmt.Fprintf(out, "Imported %s [%s] (%d items)\n", s.Source, formatter.TruncID(s.ID), s.ItemCount)
			}

			if !replace {
				return nil
			}
			stale := staleSnapshots(before, result.Snapshots)
			if len(stale) == 0 {
				return nil
			}
			if app.interactive() && !yes {
				ok, err := app.confirm(
					fmt.Sprintf("Remove %d older snapshot(s)?", len(stale)),
					"Sources: "+strings.Join(sources(stale), ", "),
				)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, formatter.Dim("Kept older snapshots."))
					return nil
				}
			}
			for _, s := range stale {
				if err := app.Snapshots.Delete(ctx, s.ID); err != nil {
					return fmt.Errorf("removing snapshot %s: %w", s.ID, err)
				}
				fmt.Fprintf(out, "Removed %s [%s]\n", s.Source, formatter.TruncID(s.ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Remove older snapshots with the same source")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask before removing snapshots")

	return cmd
}

// staleSnapshots returns the snapshots in before that share a source with
// one of the fresh imports.
func staleSnapshots(before, fresh []*domain.Snapshot) []*domain.Snapshot {
	sources := make(map[string]bool, len(fresh))
	for _, s := range fresh {
		sources[s.Source] = true
	}
	var stale []*domain.Snapshot
	for _, s := range before {
		if sources[s.Source] {
			stale = append(stale, s)
		}
	}
	return stale
}

func sources(snaps []*domain.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.Source)
	}
	return out
}
