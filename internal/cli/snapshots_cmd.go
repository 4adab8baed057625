package cli

import (
	"fmt"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSnapshotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List imported snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := app.Snapshots.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotList(snaps, app.now()))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Remove a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSnapshotID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Snapshots.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed snapshot %s\n", id)
			return nil
		},
	})

	return cmd
}
