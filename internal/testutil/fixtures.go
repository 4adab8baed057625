package testutil

import (
	"strings"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
)

// ItemOption customizes a fixture work item.
type ItemOption func(*domain.WorkItem)

func WithParent(id string) ItemOption {
	return func(w *domain.WorkItem) {
		w.ParentID = &id
	}
}

// WithLabels sets the raw label string, joining labels with commas.
func WithLabels(labels ...string) ItemOption {
	return func(w *domain.WorkItem) {
		w.Labels = strings.Join(labels, ",")
	}
}

// WithMilestone binds the item to a milestone and parents it there, the
// way the tracker export lays out milestone members.
func WithMilestone(milestoneID, title string) ItemOption {
	return func(w *domain.WorkItem) {
		w.MilestoneID = milestoneID
		w.MilestoneTitle = title
		w.ParentID = domain.StrPtr(domain.MilestoneItemID(milestoneID))
	}
}

func WithOrder(n int) ItemOption {
	return func(w *domain.WorkItem) {
		w.Order = n
	}
}

func WithDueDate(d time.Time) ItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &d
	}
}

func WithStartDate(d time.Time) ItemOption {
	return func(w *domain.WorkItem) {
		w.StartDate = &d
	}
}

func newItem(id, text string, class domain.Classification, opts []ItemOption) domain.WorkItem {
	w := domain.WorkItem{ID: id, Text: text, Class: class}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

func NewIssue(id, text string, opts ...ItemOption) domain.WorkItem {
	return newItem(id, text, domain.ClassIssue, opts)
}

func NewSubTask(id, parentID, text string, opts ...ItemOption) domain.WorkItem {
	return newItem(id, text, domain.ClassSubTask, append([]ItemOption{WithParent(parentID)}, opts...))
}

func NewSummary(id, text string, opts ...ItemOption) domain.WorkItem {
	return newItem(id, text, domain.ClassSummary, opts)
}

// NewMilestone builds a milestone row whose id is derived from milestoneID.
func NewMilestone(milestoneID, title string, opts ...ItemOption) domain.WorkItem {
	w := newItem(domain.MilestoneItemID(milestoneID), title, domain.ClassMilestone, opts)
	w.MilestoneID = milestoneID
	return w
}

// ParentsByID maps each item id to its parent ("" for root).
func ParentsByID(items []domain.WorkItem) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.ID] = it.Parent()
	}
	return out
}
