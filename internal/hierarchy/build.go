package hierarchy

import "github.com/alexanderramin/ganttfold/internal/domain"

// BuildResult is the outcome of one Build call.
type BuildResult struct {
	// Items mirrors the input order. Only ParentID differs, and only for
	// re-parented rows; every other row is the input value unchanged.
	Items []domain.WorkItem
	// Folders holds each synthetic folder once, in creation order.
	Folders []domain.WorkItem
	// Reparented lists the ids of rows whose parent changed.
	Reparented []string
	// Voided lists the ids of issues whose folder label pointed outside
	// their bound milestone and was ignored.
	Voided []string
}

// All returns folders followed by items, the shape Strip accepts.
func (r BuildResult) All() []domain.WorkItem {
	out := make([]domain.WorkItem, 0, len(r.Folders)+len(r.Items))
	out = append(out, r.Folders...)
	return append(out, r.Items...)
}

// milestoneIndex resolves milestone titles to row identifiers.
type milestoneIndex struct {
	byTitle map[string]string
	titleOf map[string]string
}

// newMilestoneIndex indexes milestones by full title. On duplicate titles
// the first milestone in input order wins.
func newMilestoneIndex(milestones []domain.WorkItem) milestoneIndex {
	idx := milestoneIndex{
		byTitle: make(map[string]string, len(milestones)),
		titleOf: make(map[string]string, len(milestones)),
	}
	for _, m := range milestones {
		if m.Class != domain.ClassMilestone {
			continue
		}
		if _, ok := idx.byTitle[m.Text]; !ok {
			idx.byTitle[m.Text] = m.ID
		}
		idx.titleOf[m.ID] = m.Text
	}
	return idx
}

// boundTitle returns the original title of the milestone item is bound to.
func (idx milestoneIndex) boundTitle(item domain.WorkItem) (string, bool) {
	if item.MilestoneTitle != "" {
		return item.MilestoneTitle, true
	}
	title, ok := idx.titleOf[item.BoundMilestoneItemID()]
	return title, ok
}

// longestMatch finds the longest path prefix that names a milestone.
// Every length is tried; a longer match replaces a shorter one.
func (idx milestoneIndex) longestMatch(path []string, sep string) (n int, id string) {
	for l := 1; l <= len(path); l++ {
		if mid, ok := idx.byTitle[joinPath(path[:l], sep)]; ok {
			n, id = l, mid
		}
	}
	return n, id
}

// Build derives the folder hierarchy for a snapshot. milestones must be the
// milestone rows of the same snapshot as items.
//
// Phase A nests every milestone whose title contains the separator under a
// chain of folders built from the title prefix. Phase B re-parents issues
// carrying a folder label: under the deepest folder of the label path, with
// the longest prefix naming a milestone used as the chain's starting point.
func Build(items, milestones []domain.WorkItem, opts Options) BuildResult {
	opts = opts.withDefaults()
	folders := newFolderSet(opts)
	index := newMilestoneIndex(milestones)

	moves := make(map[string]*string)
	for _, m := range milestones {
		if m.Class != domain.ClassMilestone {
			continue
		}
		if _, done := moves[m.ID]; done {
			continue
		}
		mp, ok := DecomposeMilestoneTitle(m.Text, opts)
		if !ok {
			continue
		}
		moves[m.ID] = folders.chain(mp.Folders, 0, nil)
	}

	res := BuildResult{Items: make([]domain.WorkItem, len(items))}
	for i, item := range items {
		parent, moved, voided := reconcile(item, moves, index, folders, opts)
		if voided {
			res.Voided = append(res.Voided, item.ID)
		}
		if moved && !item.SameParent(parent) {
			item.ParentID = parent
			res.Reparented = append(res.Reparented, item.ID)
		}
		res.Items[i] = item
	}
	res.Folders = folders.list()
	return res
}

// reconcile computes the new parent of one row. moved is false when the row
// keeps its parent; otherwise parent is the new value (nil = root).
func reconcile(
	item domain.WorkItem,
	moves map[string]*string,
	index milestoneIndex,
	folders *folderSet,
	opts Options,
) (parent *string, moved, voided bool) {
	switch item.Class {
	case domain.ClassMilestone:
		p, ok := moves[item.ID]
		return p, ok, false
	case domain.ClassFolder:
		return nil, false, false
	}
	if item.Class != opts.PathClass {
		return nil, false, false
	}

	path := ParseLabelPath(item.Labels, opts)
	if len(path) == 0 {
		return nil, false, false
	}

	if item.HasMilestone() && !withinMilestone(item, path, index, opts) {
		return nil, false, true
	}

	start, mid := index.longestMatch(path, opts.Separator)
	var from *string
	if start > 0 {
		from = domain.StrPtr(mid)
	}
	return folders.chain(path, start, from), true, false
}

// withinMilestone reports whether path stays inside the item's bound
// milestone: the path truncated to the milestone title's segment count must
// spell the title exactly. An unknown title never matches.
func withinMilestone(item domain.WorkItem, path []string, index milestoneIndex, opts Options) bool {
	title, ok := index.boundTitle(item)
	if !ok || title == "" {
		return false
	}
	n := len(splitPath(title, opts.Separator))
	if n > len(path) {
		n = len(path)
	}
	return joinPath(path[:n], opts.Separator) == title
}

// Milestones returns the milestone rows of items in input order.
func Milestones(items []domain.WorkItem) []domain.WorkItem {
	var out []domain.WorkItem
	for _, it := range items {
		if it.Class == domain.ClassMilestone {
			out = append(out, it)
		}
	}
	return out
}
