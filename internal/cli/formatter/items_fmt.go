package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
)

// TreeItems lays items out depth-first. Children keep their input order.
// Rows whose parent is not in items are drawn as roots.
func TreeItems(items []domain.WorkItem, opts hierarchy.Options) []TreeItem {
	present := make(map[string]bool, len(items))
	for _, it := range items {
		present[it.ID] = true
	}

	var roots []int
	children := make(map[string][]int)
	for i, it := range items {
		if it.IsRoot() || !present[it.Parent()] || it.Parent() == it.ID {
			roots = append(roots, i)
			continue
		}
		children[it.Parent()] = append(children[it.Parent()], i)
	}

	out := make([]TreeItem, 0, len(items))
	visited := make(map[string]bool, len(items))
	var walk func(idx []int, level int, open []bool)
	walk = func(idx []int, level int, open []bool) {
		for n, i := range idx {
			it := items[i]
			if visited[it.ID] {
				continue
			}
			visited[it.ID] = true
			last := n == len(idx)-1
			out = append(out, newTreeItem(it, level, open, last, opts))

			next := make([]bool, len(open), len(open)+1)
			copy(next, open)
			if level > 0 {
				next = append(next, !last)
			}
			walk(children[it.ID], level+1, next)
		}
	}
	walk(roots, 0, nil)
	// Rows on a parent cycle are unreachable from any root.
	for i, it := range items {
		if !visited[it.ID] {
			walk([]int{i}, 0, nil)
		}
	}
	return out
}

func newTreeItem(it domain.WorkItem, level int, open []bool, last bool, opts hierarchy.Options) TreeItem {
	var tag string
	if it.Class != domain.ClassFolder && it.Class != domain.ClassMilestone {
		tag = "#" + it.ID + " "
	}
	return TreeItem{
		ID:     it.ID,
		Title:  hierarchy.DisplayText(it, opts),
		Tag:    tag,
		Glyph:  ClassGlyph(it.Class),
		Style:  ClassStyle(it.Class),
		Level:  level,
		Open:   open,
		IsLast: last,
		Detail: itemDetail(it),
	}
}

func itemDetail(it domain.WorkItem) string {
	var parts []string
	if it.StartDate != nil {
		parts = append(parts, it.StartDate.Format("Jan 2"))
	}
	if it.DueDate != nil {
		parts = append(parts, "due "+it.DueDate.Format("Jan 2"))
	}
	return strings.Join(parts, " → ")
}

// FormatItemTable renders items as a flat table in input order.
func FormatItemTable(items []domain.WorkItem) string {
	headers := []string{"ID", "PARENT", "CLASS", "TEXT", "LABELS"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		parent := it.Parent()
		if parent == "" {
			parent = domain.RootParentWire
		}
		rows = append(rows, []string{
			it.ID,
			Dim(parent),
			ClassStyle(it.Class).Render(string(it.Class)),
			it.Text,
			Dim(it.Labels),
		})
	}
	return RenderTable(headers, rows)
}

// FormatBuildSummary describes how many rows a build moved.
func FormatBuildSummary(r hierarchy.BuildResult) string {
	s := fmt.Sprintf("%d items, %d folders, %d re-parented", len(r.Items), len(r.Folders), len(r.Reparented))
	if len(r.Voided) > 0 {
		s += ", " + StyleYellow.Render(fmt.Sprintf("%d labels ignored (%s)", len(r.Voided), strings.Join(r.Voided, ", ")))
	}
	return Dim(s)
}
