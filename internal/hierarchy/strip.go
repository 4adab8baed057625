package hierarchy

import (
	"sort"

	"github.com/alexanderramin/ganttfold/internal/domain"
)

// Strip reverses Build: it drops folder rows, restores the parents Build
// replaced, and re-sorts siblings so milestones precede other rows.
//
// When items holds no folder and no issue Build placed under a milestone by
// label, the input slice is returned as is.
func Strip(items []domain.WorkItem, opts Options) []domain.WorkItem {
	opts = opts.withDefaults()

	folderIDs := make(map[string]struct{})
	for _, it := range items {
		if it.Class == domain.ClassFolder {
			folderIDs[it.ID] = struct{}{}
		}
	}
	index := newMilestoneIndex(items)

	displaced := func(it domain.WorkItem) bool {
		if it.ParentID == nil {
			return false
		}
		if _, ok := folderIDs[*it.ParentID]; ok {
			return true
		}
		if it.Class != opts.PathClass || *it.ParentID == it.BoundMilestoneItemID() {
			return false
		}
		return labelNamesMilestone(it, *it.ParentID, index, opts)
	}

	if len(folderIDs) == 0 && !anyOf(items, displaced) {
		return items
	}

	restored := make([]domain.WorkItem, 0, len(items)-len(folderIDs))
	for _, it := range items {
		if it.Class == domain.ClassFolder {
			continue
		}
		if displaced(it) {
			it.ParentID = originalParent(it, opts)
		}
		restored = append(restored, it)
	}
	return SortSiblings(restored)
}

// originalParent is the parent a displaced row had before Build. Milestones
// only ever move away from the root; issues sit under their bound milestone
// or at the root.
func originalParent(it domain.WorkItem, opts Options) *string {
	switch {
	case it.Class == domain.ClassMilestone:
		return nil
	case it.Class == opts.PathClass && it.HasMilestone():
		return domain.StrPtr(it.BoundMilestoneItemID())
	default:
		return nil
	}
}

// labelNamesMilestone reports whether the item's whole label path names the
// milestone row mid. Build parents such an issue directly under mid, which
// need not be its bound milestone.
func labelNamesMilestone(it domain.WorkItem, mid string, index milestoneIndex, opts Options) bool {
	path := ParseLabelPath(it.Labels, opts)
	if len(path) == 0 {
		return false
	}
	n, id := index.longestMatch(path, opts.Separator)
	return n == len(path) && id == mid
}

func anyOf(items []domain.WorkItem, pred func(domain.WorkItem) bool) bool {
	for _, it := range items {
		if pred(it) {
			return true
		}
	}
	return false
}

type parentKey struct {
	root bool
	id   string
}

func keyOf(it domain.WorkItem) parentKey {
	if it.ParentID == nil {
		return parentKey{root: true}
	}
	return parentKey{id: *it.ParentID}
}

// SortSiblings groups items by parent in first-seen parent order. Within a
// group milestones come first, ordered by MilestoneLess, then every other
// row ordered by Order. Equal keys keep their input order.
func SortSiblings(items []domain.WorkItem) []domain.WorkItem {
	var order []parentKey
	groups := make(map[parentKey][]domain.WorkItem)
	for _, it := range items {
		k := keyOf(it)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	out := make([]domain.WorkItem, 0, len(items))
	for _, k := range order {
		var milestones, rest []domain.WorkItem
		for _, it := range groups[k] {
			if it.Class == domain.ClassMilestone {
				milestones = append(milestones, it)
			} else {
				rest = append(rest, it)
			}
		}
		sort.SliceStable(milestones, func(i, j int) bool {
			return MilestoneLess(milestones[i], milestones[j])
		})
		sort.SliceStable(rest, func(i, j int) bool {
			return rest[i].Order < rest[j].Order
		})
		out = append(out, milestones...)
		out = append(out, rest...)
	}
	return out
}

// MilestoneLess orders milestones by due date, undated last, then by
// display order.
func MilestoneLess(a, b domain.WorkItem) bool {
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
	case a.DueDate != nil:
		return true
	case b.DueDate != nil:
		return false
	}
	return a.Order < b.Order
}
