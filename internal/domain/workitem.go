package domain

import "time"

// RootParentWire is the literal parent value the tracker export uses for
// top-level rows. Internally the root is a nil ParentID.
const RootParentWire = "0"

// WorkItem is one row of a synced tracker snapshot: an issue, a sub-task,
// a milestone, a summary row, or a synthetic folder.
type WorkItem struct {
	ID       string
	ParentID *string // nil means top level
	Text     string
	Labels   string // raw comma-separated label string
	Class    Classification

	// Milestone binding
	MilestoneID    string
	MilestoneTitle string

	Order     int
	StartDate *time.Time
	DueDate   *time.Time
}

// IsRoot reports whether the item sits at the top level.
func (w WorkItem) IsRoot() bool {
	return w.ParentID == nil
}

// Parent returns the parent identifier, or "" for top-level items.
func (w WorkItem) Parent() string {
	if w.ParentID == nil {
		return ""
	}
	return *w.ParentID
}

// HasMilestone reports whether the item is bound to a milestone.
func (w WorkItem) HasMilestone() bool {
	return w.MilestoneID != ""
}

// BoundMilestoneItemID returns the row identifier of the milestone this item
// is bound to, derived from the binding field. It is "" for unbound items.
func (w WorkItem) BoundMilestoneItemID() string {
	if !w.HasMilestone() {
		return ""
	}
	return MilestoneItemID(w.MilestoneID)
}

// SameParent reports whether the item's parent equals p, treating nil as root.
func (w WorkItem) SameParent(p *string) bool {
	if w.ParentID == nil || p == nil {
		return w.ParentID == nil && p == nil
	}
	return *w.ParentID == *p
}

// StrPtr returns a pointer to a copy of s.
func StrPtr(s string) *string {
	return &s
}
