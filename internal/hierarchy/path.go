package hierarchy

import (
	"strings"

	"github.com/alexanderramin/ganttfold/internal/domain"
)

// ParseLabelPath extracts the folder path from a comma-separated label string.
// The first label carrying the path prefix wins, even if later ones exist.
// It returns nil when there is no path label or its path is empty.
func ParseLabelPath(labels string, opts Options) []string {
	opts = opts.withDefaults()
	if labels == "" {
		return nil
	}
	for _, tok := range strings.Split(labels, ",") {
		tok = strings.TrimSpace(tok)
		if !strings.HasPrefix(tok, opts.LabelPrefix) {
			continue
		}
		return splitPath(strings.TrimPrefix(tok, opts.LabelPrefix), opts.Separator)
	}
	return nil
}

// MilestonePath is a milestone title split into folders and a leaf name.
type MilestonePath struct {
	Folders []string
	Leaf    string
}

// DecomposeMilestoneTitle splits a milestone title on the separator. ok is
// false when the title has at most one segment and is left as is.
func DecomposeMilestoneTitle(title string, opts Options) (mp MilestonePath, ok bool) {
	opts = opts.withDefaults()
	segs := splitPath(title, opts.Separator)
	if len(segs) <= 1 {
		return MilestonePath{}, false
	}
	return MilestonePath{
		Folders: segs[:len(segs)-1],
		Leaf:    segs[len(segs)-1],
	}, true
}

// DisplayText is the name a row is shown under once the tree is built.
// Path-bearing milestones show only their leaf segment.
func DisplayText(item domain.WorkItem, opts Options) string {
	if item.Class != domain.ClassMilestone {
		return item.Text
	}
	if mp, ok := DecomposeMilestoneTitle(item.Text, opts); ok {
		return mp.Leaf
	}
	return item.Text
}

// splitPath drops empty segments and keeps the rest byte for byte, since
// segments are compared to milestone titles exactly.
func splitPath(s, sep string) []string {
	var segs []string
	for _, seg := range strings.Split(s, sep) {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

func joinPath(segs []string, sep string) string {
	return strings.Join(segs, sep)
}
