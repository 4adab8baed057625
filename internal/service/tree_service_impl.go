package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/integrity"
	"github.com/alexanderramin/ganttfold/internal/repository"
)

type treeService struct {
	snapshots repository.SnapshotRepo
	items     repository.ItemRepo
	opts      hierarchy.Options
	observer  UseCaseObserver
}

func NewTreeService(
	snapshots repository.SnapshotRepo,
	items repository.ItemRepo,
	opts hierarchy.Options,
	observers ...UseCaseObserver,
) TreeService {
	return &treeService{
		snapshots: snapshots,
		items:     items,
		opts:      opts,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *treeService) Options() hierarchy.Options { return s.opts }

// Build loads a snapshot (the latest when snapshotID is empty) and applies
// the folder tree to it.
func (s *treeService) Build(ctx context.Context, snapshotID string) (view *TreeView, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "build", time.Now().UTC(), fields, &err)

	snap, items, err := s.load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.items.ListMilestones(ctx, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}

	result := hierarchy.Build(items, milestones, s.opts)
	fields["snapshot"] = snap.ID
	fields["item_count"] = len(result.Items)
	fields["folder_count"] = len(result.Folders)
	fields["reparented_count"] = len(result.Reparented)
	fields["voided_count"] = len(result.Voided)
	return &TreeView{Snapshot: snap, Result: result}, nil
}

func (s *treeService) Strip(ctx context.Context, items []domain.WorkItem) (out []domain.WorkItem, err error) {
	fields := map[string]any{"item_count": len(items)}
	defer observe(ctx, s.observer, "strip", time.Now().UTC(), fields, &err)

	out = hierarchy.Strip(items, s.opts)
	fields["folder_count"] = len(items) - len(out)
	return out, nil
}

func (s *treeService) Check(ctx context.Context, snapshotID string) (report *integrity.Report, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "check", time.Now().UTC(), fields, &err)

	snap, items, err := s.load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	r := integrity.Check(items, s.opts)
	fields["snapshot"] = snap.ID
	fields["item_count"] = r.Items
	fields["folder_count"] = r.Folders
	fields["ok"] = r.OK()
	return &r, nil
}

func (s *treeService) load(ctx context.Context, snapshotID string) (*domain.Snapshot, []domain.WorkItem, error) {
	var (
		snap *domain.Snapshot
		err  error
	)
	if snapshotID == "" {
		snap, err = s.snapshots.Latest(ctx)
	} else {
		snap, err = s.snapshots.GetByID(ctx, snapshotID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("finding snapshot: %w", err)
	}
	items, err := s.items.ListBySnapshot(ctx, snap.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot %s: %w", snap.ID, err)
	}
	return snap, items, nil
}
