package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/repository"
	"github.com/alexanderramin/ganttfold/internal/testutil"
	"github.com/stretchr/testify/require"
)

const birthdaySnapshotJSON = `{
  "source": "birthday",
  "items": [
    {"id": "m-1", "parent": "0", "text": "小活動範本/生日", "type": "milestone", "milestone_id": "1", "order": 1},
    {"id": "10", "parent": "m-1", "text": "Cake", "type": "issue", "milestone_id": "1",
     "milestone_title": "小活動範本/生日", "labels": ["folder::小活動範本/生日/taskgroup"], "order": 2},
    {"id": "11", "parent": "10", "text": "Buy flour", "type": "task", "order": 3},
    {"id": "12", "parent": "0", "text": "Infra", "type": "issue", "labels": "bug,folder::Ops/Infra", "order": 4}
  ]
}`

const opsSnapshotYAML = `source: ops
items:
  - id: m-7
    text: Ops/Q3
    type: milestone
    milestone_id: 7
  - id: 70
    parent: m-7
    text: Cutover
    type: issue
    milestone_id: 7
`

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type fixture struct {
	snapshots *repository.SQLiteSnapshotRepo
	items     *repository.SQLiteItemRepo
	observer  *recordingObserver
	svc       SnapshotService
	tree      TreeService
}

func setup(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := fixture{
		snapshots: repository.NewSQLiteSnapshotRepo(database),
		items:     repository.NewSQLiteItemRepo(database),
		observer:  &recordingObserver{},
	}
	f.svc = NewSnapshotService(f.snapshots, f.items, testutil.NewTestUoW(database), f.observer)
	f.tree = NewTreeService(f.snapshots, f.items, hierarchy.DefaultOptions(), f.observer)
	return f
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
