package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/integrity"
)

// FormatSnapshotList renders stored snapshots, newest first.
func FormatSnapshotList(snaps []*domain.Snapshot, now time.Time) string {
	if len(snaps) == 0 {
		return Dim("No snapshots imported yet. Run 'ganttfold import FILE'.") + "\n"
	}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			TruncID(s.ID),
			s.Source,
			fmt.Sprintf("%d", s.ItemCount),
			HumanTimestampFrom(s.ImportedAt, now),
		})
	}
	return RenderTable([]string{"ID", "SOURCE", "ITEMS", "IMPORTED"}, rows)
}

// FormatCheckReport renders an integrity report inside a box.
func FormatCheckReport(r integrity.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s items, %s folders\n", Bold(fmt.Sprint(r.Items)), Bold(fmt.Sprint(r.Folders)))

	if r.OK() {
		b.WriteString(StyleGreen.Render("✔ tree is acyclic and strips back to the snapshot"))
		return RenderBox("check", b.String())
	}

	for _, id := range r.Dangling {
		b.WriteString(StyleRed.Render("✖ dangling parent: ") + id + "\n")
	}
	for _, cycle := range r.Cycles {
		b.WriteString(StyleRed.Render("✖ parent cycle: ") + strings.Join(cycle, " → ") + "\n")
	}
	for _, id := range r.Leftover {
		b.WriteString(StyleRed.Render("✖ folder survived strip: ") + id + "\n")
	}
	for _, d := range r.Drift {
		fmt.Fprintf(&b, "%s%s: %s → %s\n", StyleYellow.Render("▲ parent drift "), d.ID, rootName(d.Before), rootName(d.After))
	}
	return RenderBox("check", strings.TrimRight(b.String(), "\n"))
}

func rootName(parent string) string {
	if parent == "" {
		return "(root)"
	}
	return parent
}
