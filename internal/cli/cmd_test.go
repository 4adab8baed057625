package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/repository"
	"github.com/alexanderramin/ganttfold/internal/service"
	"github.com/alexanderramin/ganttfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const birthdayJSON = `{
  "source": "birthday",
  "items": [
    {"id": "m-1", "parent": "0", "text": "小活動範本/生日", "type": "milestone", "milestone_id": "1", "order": 1},
    {"id": "10", "parent": "m-1", "text": "Cake", "type": "issue", "milestone_id": "1",
     "milestone_title": "小活動範本/生日", "labels": "folder::小活動範本/生日/taskgroup", "order": 2},
    {"id": "11", "parent": "10", "text": "Buy flour", "type": "task", "order": 3},
    {"id": "12", "parent": "0", "text": "Infra", "type": "issue", "labels": "bug,folder::Ops/Infra", "order": 4}
  ]
}`

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	snapshots := repository.NewSQLiteSnapshotRepo(database)
	items := repository.NewSQLiteItemRepo(database)

	return &App{
		Snapshots: service.NewSnapshotService(snapshots, items, testutil.NewTestUoW(database)),
		Trees:     service.NewTreeService(snapshots, items, hierarchy.DefaultOptions()),
		Now:       func() time.Time { return time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC) },
	}
}

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.ReplaceAllString(buf.String(), ""), err
}

func TestImportAndSnapshots(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported birthday")
	assert.Contains(t, out, "(4 items)")

	out, err = executeCmd(t, app, "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "birthday")
}

func TestImport_ValidationError(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "bad.json", `{"items":[{"id":"1","type":"epic"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown classification "epic"`)
}

func TestImport_ReplaceRemovesOlderSameSource(t *testing.T) {
	app := testApp(t)
	path := writeSnapshot(t, "birthday.json", birthdayJSON)

	_, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)

	asked := false
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(title, _ string) (bool, error) {
		asked = true
		assert.Contains(t, title, "Remove 1 older snapshot")
		return true, nil
	}
	out, err := executeCmd(t, app, "import", "--replace", path)
	require.NoError(t, err)
	assert.True(t, asked)
	assert.Contains(t, out, "Removed birthday")

	snaps, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestImport_ReplaceDeclined(t *testing.T) {
	app := testApp(t)
	path := writeSnapshot(t, "birthday.json", birthdayJSON)
	_, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)

	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string, string) (bool, error) { return false, nil }
	out, err := executeCmd(t, app, "import", "--replace", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Kept older snapshots")

	snaps, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestTreeCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ 小活動範本")
	assert.Contains(t, out, "└─ ◆ 生日")
	assert.Contains(t, out, "#12 Infra")
	assert.Contains(t, out, "4 items, 4 folders, 3 re-parented")
}

func TestTreeCmd_FlatAndClassFilter(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "tree", "--flat", "--class", "task")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy flour")
	// Ancestors of a kept row stay so it can be placed.
	assert.Contains(t, out, "Cake")
	assert.NotContains(t, out, "Infra")

	_, err = executeCmd(t, app, "tree", "--class", "epic")
	require.Error(t, err)
}

func TestTreeCmd_Find(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "tree", "--find", "flour")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy flour")
	assert.Contains(t, out, "taskgroup")
	assert.NotContains(t, out, "Ops")

	out, err = executeCmd(t, app, "tree", "--find", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching items.")
}

func TestTreeOutputThenStrip(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)

	built, err := executeCmd(t, app, "tree", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, built, `"type": "folder"`)
	builtPath := writeSnapshot(t, "built.json", built)

	stripped, err := executeCmd(t, app, "strip", builtPath)
	require.NoError(t, err)
	assert.NotContains(t, stripped, `"folder"`)
	assert.Contains(t, stripped, `"parent": "m-1"`)

	// Import accepts the stripped output again.
	_, err = executeCmd(t, app, "import", writeSnapshot(t, "again.json", stripped))
	require.NoError(t, err)
}

func TestStripCmd_ReportsEveryValidationError(t *testing.T) {
	app := testApp(t)
	bad := `{"source": "bad", "items": [
    {"id": "10", "parent": "missing", "text": "a", "type": "issue"},
    {"id": "10", "text": "b", "type": "issue"}
  ]}`
	_, err := executeCmd(t, app, "strip", writeSnapshot(t, "bad.json", bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed (2 errors)")
	assert.Contains(t, err.Error(), `items[0].parent: "missing" does not reference an item`)
	assert.Contains(t, err.Error(), `items[1].id: duplicate id "10"`)
}

func TestStripCmd_YAMLOutput(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "strip", "-o", "yaml", writeSnapshot(t, "plain.json", birthdayJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "source: birthday")
	assert.True(t, strings.Contains(out, "type: milestone"))
}

func TestCheckCmd(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "check")
	require.Error(t, err, "no snapshot yet")

	_, err = executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)
	out, err := executeCmd(t, app, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "strips back to the snapshot")
}

func TestCheckCmd_DriftFails(t *testing.T) {
	app := testApp(t)
	// Issue 10 is bound to milestone 1 but synced at the root.
	drift := `{"items":[
		{"id":"m-1","text":"M","type":"milestone","milestone_id":"1"},
		{"id":"10","text":"Stray","type":"issue","milestone_id":"1","milestone_title":"M","labels":"folder::M/x"}
	]}`
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "drift.json", drift))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "check")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "parent drift")
}

func TestSnapshotsRm(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeSnapshot(t, "birthday.json", birthdayJSON))
	require.NoError(t, err)
	snaps, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	out, err := executeCmd(t, app, "snapshots", "rm", snaps[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Removed snapshot "+snaps[0].ID)

	_, err = executeCmd(t, app, "snapshots", "rm", "nope")
	require.Error(t, err)
}

func TestViewCmd_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "view")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
