package repository

import (
	"context"

	"github.com/alexanderramin/ganttfold/internal/domain"
)

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	Latest(ctx context.Context) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepo stores the flat rows of a snapshot in their synced order.
type ItemRepo interface {
	InsertBatch(ctx context.Context, snapshotID string, items []domain.WorkItem) error
	ListBySnapshot(ctx context.Context, snapshotID string) ([]domain.WorkItem, error)
	ListMilestones(ctx context.Context, snapshotID string) ([]domain.WorkItem, error)
}
