package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ganttfold/internal/db"
	"github.com/alexanderramin/ganttfold/internal/domain"
)

// itemColumns is the canonical SELECT column list for snapshot_items.
const itemColumns = `id, parent_id, text, labels, class, milestone_id, milestone_title,
		order_index, start_date, due_date`

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

// NewSQLiteItemRepo creates a new SQLiteItemRepo.
func NewSQLiteItemRepo(conn db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: conn}
}

// InsertBatch stores items under snapshotID, recording their position so
// they are listed back in the same order. Folder rows are rejected.
func (r *SQLiteItemRepo) InsertBatch(ctx context.Context, snapshotID string, items []domain.WorkItem) error {
	query := `INSERT INTO snapshot_items (snapshot_id, id, parent_id, text, labels, class,
		milestone_id, milestone_title, order_index, start_date, due_date, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for pos, it := range items {
		if it.Class.IsSynthetic() {
			return fmt.Errorf("item %s: %w", it.ID, ErrSyntheticItem)
		}
		_, err := r.db.ExecContext(ctx, query,
			snapshotID,
			it.ID,
			nullableStringToValue(it.ParentID), // nil becomes SQL NULL
			it.Text,
			it.Labels,
			string(it.Class),
			it.MilestoneID,
			it.MilestoneTitle,
			it.Order,
			nullableTimeToString(it.StartDate, dateLayout),
			nullableTimeToString(it.DueDate, dateLayout),
			pos,
		)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *SQLiteItemRepo) ListBySnapshot(ctx context.Context, snapshotID string) ([]domain.WorkItem, error) {
	query := `SELECT ` + itemColumns + ` FROM snapshot_items WHERE snapshot_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListMilestones returns the milestone rows of a snapshot in synced order.
func (r *SQLiteItemRepo) ListMilestones(ctx context.Context, snapshotID string) ([]domain.WorkItem, error) {
	query := `SELECT ` + itemColumns + ` FROM snapshot_items
		WHERE snapshot_id = ? AND class = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, snapshotID, string(domain.ClassMilestone))
	if err != nil {
		return nil, fmt.Errorf("listing snapshot milestones: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]domain.WorkItem, error) {
	var items []domain.WorkItem
	for rows.Next() {
		var it domain.WorkItem
		var classStr string
		var parentID, startDate, dueDate sql.NullString

		err := rows.Scan(
			&it.ID, &parentID, &it.Text, &it.Labels, &classStr,
			&it.MilestoneID, &it.MilestoneTitle, &it.Order,
			&startDate, &dueDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot item row: %w", err)
		}

		it.Class = domain.Classification(classStr)
		if parentID.Valid {
			it.ParentID = &parentID.String
		}
		it.StartDate = parseNullableTime(startDate, dateLayout)
		it.DueDate = parseNullableTime(dueDate, dateLayout)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot items: %w", err)
	}
	return items, nil
}
