package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttfold/internal/db"
	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/importer"
	"github.com/alexanderramin/ganttfold/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxParallelDecode bounds how many snapshot files are parsed at once.
const maxParallelDecode = 4

type snapshotService struct {
	snapshots repository.SnapshotRepo
	items     repository.ItemRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewSnapshotService(
	snapshots repository.SnapshotRepo,
	items repository.ItemRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		items:     items,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ImportFiles parses every file concurrently, validates all of them, and
// stores them in a single transaction. Nothing is stored if any file fails.
func (s *snapshotService) ImportFiles(ctx context.Context, paths ...string) (result *ImportResult, err error) {
	fields := map[string]any{"file_count": len(paths)}
	defer observe(ctx, s.observer, "import", s.now(), fields, &err)

	schemas := make([]*importer.SnapshotSchema, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecode)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			schema, err := importer.LoadSnapshotFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			schemas[i] = schema
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for i, schema := range schemas {
		for _, e := range importer.ValidateSnapshot(schema, importer.ValidateOptions{}) {
			errs = append(errs, fmt.Errorf("%s: %w", paths[i], e))
		}
	}
	if len(errs) > 0 {
		return nil, importer.ValidationError("snapshot", errs)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)
		txItems := repository.NewSQLiteItemRepo(tx)
		for _, schema := range schemas {
			snap, err := s.store(ctx, txSnapshots, txItems, schema)
			if err != nil {
				return err
			}
			result.Snapshots = append(result.Snapshots, snap)
			result.ItemCount += snap.ItemCount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["item_count"] = result.ItemCount
	return result, nil
}

// ImportSchema validates and stores one already-decoded snapshot.
func (s *snapshotService) ImportSchema(ctx context.Context, schema *importer.SnapshotSchema) (snap *domain.Snapshot, err error) {
	fields := map[string]any{"source": schema.Source}
	defer observe(ctx, s.observer, "import", s.now(), fields, &err)

	if errs := importer.ValidateSnapshot(schema, importer.ValidateOptions{}); len(errs) > 0 {
		return nil, importer.ValidationError("snapshot", errs)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		snap, err = s.store(ctx, repository.NewSQLiteSnapshotRepo(tx), repository.NewSQLiteItemRepo(tx), schema)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["item_count"] = snap.ItemCount
	return snap, nil
}

func (s *snapshotService) store(
	ctx context.Context,
	snapshots repository.SnapshotRepo,
	items repository.ItemRepo,
	schema *importer.SnapshotSchema,
) (*domain.Snapshot, error) {
	converted, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot %q: %w", schema.Source, err)
	}
	snap := &domain.Snapshot{
		ID:         uuid.NewString(),
		Source:     schema.Source,
		ItemCount:  len(converted),
		ImportedAt: s.now(),
	}
	if err := snapshots.Create(ctx, snap); err != nil {
		return nil, fmt.Errorf("creating snapshot %q: %w", schema.Source, err)
	}
	if err := items.InsertBatch(ctx, snap.ID, converted); err != nil {
		return nil, fmt.Errorf("storing items of %q: %w", schema.Source, err)
	}
	return snap, nil
}

func (s *snapshotService) List(ctx context.Context) ([]*domain.Snapshot, error) {
	return s.snapshots.List(ctx)
}

func (s *snapshotService) Load(ctx context.Context, id string) (*domain.Snapshot, []domain.WorkItem, error) {
	snap, err := s.resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListBySnapshot(ctx, snap.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot %s: %w", snap.ID, err)
	}
	return snap, items, nil
}

func (s *snapshotService) resolve(ctx context.Context, id string) (*domain.Snapshot, error) {
	if id == "" {
		snap, err := s.snapshots.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("finding latest snapshot: %w", err)
		}
		return snap, nil
	}
	snap, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding snapshot %s: %w", id, err)
	}
	return snap, nil
}

func (s *snapshotService) Delete(ctx context.Context, id string) error {
	return s.snapshots.Delete(ctx, id)
}
