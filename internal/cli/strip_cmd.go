package cli

import (
	"fmt"

	"github.com/alexanderramin/ganttfold/internal/importer"
	"github.com/spf13/cobra"
)

func newStripCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "strip FILE",
		Short: "Remove folders from a built file and restore the original parents",
		Long: "Reads rows written by 'tree -o json|yaml', drops every folder row, puts\n" +
			"re-parented rows back where the tracker had them and prints the result.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadSnapshotFile(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			if errs := importer.ValidateSnapshot(schema, importer.ValidateOptions{AllowFolders: true}); len(errs) > 0 {
				return importer.ValidationError(args[0], errs)
			}
			items, err := importer.Convert(schema)
			if err != nil {
				return err
			}

			stripped, err := app.Trees.Strip(cmd.Context(), items)
			if err != nil {
				return err
			}

			if format == "" {
				format = string(importer.FormatForPath(args[0]))
			}
			return encodeItems(cmd.OutOrStdout(), schema.Source, stripped, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format, json or yaml (default: input format)")

	return cmd
}
