package service

import (
	"context"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/importer"
	"github.com/alexanderramin/ganttfold/internal/integrity"
)

// ImportResult holds the outcome of importing one or more snapshot files.
type ImportResult struct {
	Snapshots []*domain.Snapshot
	ItemCount int
}

type SnapshotService interface {
	ImportFiles(ctx context.Context, paths ...string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.SnapshotSchema) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	// Load returns a snapshot and its rows. An empty id selects the latest.
	Load(ctx context.Context, id string) (*domain.Snapshot, []domain.WorkItem, error)
	Delete(ctx context.Context, id string) error
}

// TreeView is a stored snapshot with its folder tree applied.
type TreeView struct {
	Snapshot *domain.Snapshot
	Result   hierarchy.BuildResult
}

type TreeService interface {
	Build(ctx context.Context, snapshotID string) (*TreeView, error)
	Strip(ctx context.Context, items []domain.WorkItem) ([]domain.WorkItem, error)
	Check(ctx context.Context, snapshotID string) (*integrity.Report, error)
	Options() hierarchy.Options
}
