package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/importer"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

type treeFlags struct {
	snapshot string
	flat     bool
	find     string
	format   string
	width    int
	classes  classFilter
}

func newTreeCmd(app *App) *cobra.Command {
	var f treeFlags

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a snapshot with its folder hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSnapshotID(ctx, app, f.snapshot)
			if err != nil {
				return err
			}
			view, err := app.Trees.Build(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if f.format != "" {
				return encodeItems(out, view.Snapshot.Source, view.Result.All(), f.format)
			}

			opts := app.Trees.Options()
			items := view.Result.All()
			if f.flat {
				items = view.Result.Items
			}
			items = filterItems(items, f.find, &f.classes, opts)
			if len(items) == 0 {
				fmt.Fprintln(out, formatter.Dim("No matching items."))
				return nil
			}

			fmt.Fprintln(out, formatter.Header(view.Snapshot.Source))
			if f.flat {
				fmt.Fprint(out, formatter.FormatItemTable(items))
			} else {
				fmt.Fprint(out, formatter.RenderTree(formatter.TreeItems(items, opts), f.width))
			}
			fmt.Fprintln(out, formatter.FormatBuildSummary(view.Result))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "Snapshot ID or prefix (default: latest)")
	cmd.Flags().BoolVar(&f.flat, "flat", false, "List rows without folders in synced order")
	cmd.Flags().StringVar(&f.find, "find", "", "Fuzzy-match rows by display text")
	cmd.Flags().StringVarP(&f.format, "output", "o", "", "Write the built rows as json or yaml")
	cmd.Flags().IntVar(&f.width, "width", 0, "Truncate lines to this display width")
	cmd.Flags().Var(&f.classes, "class", "Only show rows of these classes ("+classNames()+")")

	return cmd
}

// filterItems keeps rows that match the fuzzy query and class filter, plus
// every ancestor of a kept row so the tree stays connected.
func filterItems(items []domain.WorkItem, query string, classes *classFilter, opts hierarchy.Options) []domain.WorkItem {
	if query == "" && classes.Empty() {
		return items
	}

	keep := make(map[string]bool)
	if query != "" {
		texts := make([]string, len(items))
		for i, it := range items {
			texts[i] = hierarchy.DisplayText(it, opts)
		}
		for _, m := range fuzzy.Find(query, texts) {
			if classes.Match(items[m.Index].Class) {
				keep[items[m.Index].ID] = true
			}
		}
	} else {
		for _, it := range items {
			if classes.Match(it.Class) {
				keep[it.ID] = true
			}
		}
	}

	parentOf := make(map[string]string, len(items))
	for _, it := range items {
		parentOf[it.ID] = it.Parent()
	}
	for id := range keep {
		seen := map[string]bool{id: true}
		for p := parentOf[id]; p != "" && !seen[p]; p = parentOf[p] {
			seen[p] = true
			keep[p] = true
		}
	}

	out := make([]domain.WorkItem, 0, len(keep))
	for _, it := range items {
		if keep[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func encodeItems(w io.Writer, source string, items []domain.WorkItem, format string) error {
	var f importer.Format
	switch format {
	case "json":
		f = importer.FormatJSON
	case "yaml", "yml":
		f = importer.FormatYAML
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	return importer.EncodeSnapshot(w, importer.ToSchema(source, items), f)
}
