package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("integrity check failed")

func newCheckCmd(app *App) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the built tree is acyclic and strips back to the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSnapshotID(ctx, app, snapshot)
			if err != nil {
				return err
			}
			report, err := app.Trees.Check(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckReport(*report))
			if !report.OK() {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot ID or prefix (default: latest)")

	return cmd
}
