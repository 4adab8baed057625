package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillItemCounts(db); err != nil {
		return fmt.Errorf("backfilling snapshot item counts: %w", err)
	}
	return nil
}

// migrateBackfillItemCounts fills item_count for snapshots written before
// the column existed.
func migrateBackfillItemCounts(db *sql.DB) error {
	_, err := db.Exec(`UPDATE snapshots SET item_count = (
		SELECT COUNT(*) FROM snapshot_items WHERE snapshot_items.snapshot_id = snapshots.id
	) WHERE item_count = 0`)
	return err
}

// Folder rows are never stored: the class CHECK omits 'folder'.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL DEFAULT '',
		imported_at TEXT NOT NULL
	)`,

	`ALTER TABLE snapshots ADD COLUMN item_count INTEGER NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_imported ON snapshots(imported_at)`,

	`CREATE TABLE IF NOT EXISTS snapshot_items (
		snapshot_id     TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		id              TEXT NOT NULL,
		parent_id       TEXT,
		text            TEXT NOT NULL DEFAULT '',
		labels          TEXT NOT NULL DEFAULT '',
		class           TEXT NOT NULL
		                CHECK(class IN ('issue','subtask','milestone','summary')),
		milestone_id    TEXT NOT NULL DEFAULT '',
		milestone_title TEXT NOT NULL DEFAULT '',
		order_index     INTEGER NOT NULL DEFAULT 0,
		start_date      TEXT,
		due_date        TEXT,
		position        INTEGER NOT NULL,
		PRIMARY KEY (snapshot_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshot_items_position ON snapshot_items(snapshot_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_items_class ON snapshot_items(snapshot_id, class)`,
}
