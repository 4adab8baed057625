package integrity

import (
	"testing"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/alexanderramin/ganttfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_CleanSnapshot(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewMilestone("1", "小活動範本/生日"),
		testutil.NewMilestone("2", "Backlog"),
		testutil.NewIssue("10", "Cake",
			testutil.WithMilestone("1", "小活動範本/生日"),
			testutil.WithLabels("folder::小活動範本/生日/taskgroup")),
		testutil.NewIssue("12", "Triage", testutil.WithLabels("folder::Backlog")),
		testutil.NewIssue("13", "Infra", testutil.WithLabels("folder::Ops/Infra")),
		testutil.NewSubTask("15", "13", "Subtask"),
	}

	report := Check(items, hierarchy.DefaultOptions())
	assert.True(t, report.OK(), "%+v", report)
	assert.Equal(t, 6, report.Items)
	// 小活動範本, taskgroup, Ops, Ops/Infra
	assert.Equal(t, 4, report.Folders)
}

func TestCheck_ReportsDrift(t *testing.T) {
	// Bound to milestone 1 but synced at the root: Strip puts it back under
	// the milestone, which differs from the snapshot.
	stray := testutil.NewIssue("10", "Stray", testutil.WithLabels("folder::M/x"))
	stray.MilestoneID = "1"
	stray.MilestoneTitle = "M"
	items := []domain.WorkItem{testutil.NewMilestone("1", "M"), stray}

	report := Check(items, hierarchy.DefaultOptions())
	require.False(t, report.OK())
	assert.Equal(t, []Drift{{ID: "10", Before: "", After: "m-1"}}, report.Drift)
	assert.Empty(t, report.Cycles)
	assert.Empty(t, report.Dangling)
}

func TestParentGraph_DanglingAndCycles(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewIssue("a", "a", testutil.WithParent("b")),
		testutil.NewIssue("b", "b", testutil.WithParent("a")),
		testutil.NewIssue("c", "c", testutil.WithParent("c")),
		testutil.NewIssue("d", "d", testutil.WithParent("missing")),
		testutil.NewIssue("e", "e"),
	}

	dangling, cycles := ParentGraph(items)
	assert.Equal(t, []string{"d"}, dangling)
	assert.ElementsMatch(t, [][]string{{"c"}, {"a", "b"}}, cycles)
}

func TestParentGraph_EmptyInput(t *testing.T) {
	dangling, cycles := ParentGraph(nil)
	assert.Empty(t, dangling)
	assert.Empty(t, cycles)
}
