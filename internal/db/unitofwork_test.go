package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/ganttfold/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertSnapshot(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, item_count, imported_at) VALUES (?, 'test', 0, '2026-01-01T00:00:00.000000000Z')`, id)
	return err
}

func insertItem(ctx context.Context, tx db.DBTX, snapshotID, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_items (snapshot_id, id, text, class, position) VALUES (?, ?, 'x', 'issue', 0)`,
		snapshotID, id)
	return err
}

func countSnapshots(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSnapshot(ctx, tx, "s1"); err != nil {
			return err
		}
		return insertItem(ctx, tx, "s1", "1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countSnapshots(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSnapshot(ctx, tx, "s2"); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countSnapshots(t, database), "snapshot should not exist after rollback")
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSnapshot(ctx, tx, "s3"); err != nil {
			return err
		}
		// Items must belong to an existing snapshot.
		return insertItem(ctx, tx, "missing", "1")
	})
	require.Error(t, err)
	assert.Equal(t, 0, countSnapshots(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSnapshot(ctx, tx, "s4")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countSnapshots(t, database), "snapshot should not exist after panic rollback")
}
