package hierarchy

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripFixture() []domain.WorkItem {
	return []domain.WorkItem{
		testutil.NewMilestone("1", "小活動範本/生日", testutil.WithOrder(1)),
		testutil.NewMilestone("2", "Backlog", testutil.WithOrder(2)),
		testutil.NewMilestone("3", "Ops/Q3/Cutover", testutil.WithOrder(3)),
		testutil.NewIssue("10", "Cake", testutil.WithOrder(10),
			testutil.WithMilestone("1", "小活動範本/生日"),
			testutil.WithLabels("folder::小活動範本/生日/taskgroup")),
		testutil.NewIssue("11", "Balloons", testutil.WithOrder(11),
			testutil.WithMilestone("1", "小活動範本/生日"),
			testutil.WithLabels("folder::X/Y")),
		testutil.NewIssue("12", "Triage", testutil.WithOrder(12), testutil.WithLabels("folder::Backlog")),
		testutil.NewIssue("13", "Infra", testutil.WithOrder(13), testutil.WithLabels("bug,folder::Ops/Infra")),
		testutil.NewIssue("14", "Plain", testutil.WithOrder(14)),
		testutil.NewSubTask("15", "13", "Subtask", testutil.WithOrder(15), testutil.WithLabels("folder::Z")),
		testutil.NewSummary("16", "Summary", testutil.WithOrder(16)),
	}
}

func TestStrip_FastPathReturnsInput(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewMilestone("1", "M"),
		testutil.NewIssue("10", "a", testutil.WithMilestone("1", "M")),
		testutil.NewIssue("11", "b"),
	}
	got := Strip(items, DefaultOptions())

	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0], "no folders: the input slice is returned unmodified")
}

func TestStrip_EndToEndMilestone(t *testing.T) {
	items := []domain.WorkItem{testutil.NewMilestone("1", "小活動範本/生日")}
	built := build(items)
	require.Equal(t, "f-小活動範本", built.Items[0].Parent())

	stripped := Strip(built.All(), DefaultOptions())
	require.Len(t, stripped, 1)
	assert.True(t, stripped[0].IsRoot())
	assert.Equal(t, items, stripped)
}

func TestStrip_RoundTripRestoresParents(t *testing.T) {
	items := roundTripFixture()
	built := build(items)
	require.NotEmpty(t, built.Folders)

	stripped := Strip(built.All(), DefaultOptions())

	assert.Len(t, stripped, len(items))
	assert.Equal(t, testutil.ParentsByID(items), testutil.ParentsByID(stripped))
	for _, it := range stripped {
		assert.NotEqual(t, domain.ClassFolder, it.Class)
	}
}

func TestStrip_RoundTripPreservesItemValues(t *testing.T) {
	items := roundTripFixture()
	stripped := Strip(build(items).All(), DefaultOptions())

	byID := make(map[string]domain.WorkItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, it := range stripped {
		assert.Equal(t, byID[it.ID], it, "item %s", it.ID)
	}
}

func TestStrip_RestoresDirectMilestonePlacement(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewMilestone("1", "Backlog"),
		testutil.NewIssue("10", "T", testutil.WithLabels("folder::Backlog")),
	}
	built := build(items)
	require.Empty(t, built.Folders)
	require.Equal(t, "m-1", built.Items[1].Parent())

	stripped := Strip(built.All(), DefaultOptions())
	assert.True(t, itemByID(t, stripped, "10").IsRoot())
}

func TestStrip_FastPathKeepsForeignMilestonePlacement(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewMilestone("1", "A"),
		testutil.NewMilestone("2", "B"),
		testutil.NewIssue("10", "elsewhere", testutil.WithMilestone("1", "A"), testutil.WithParent("m-2")),
		testutil.NewIssue("11", "label elsewhere", testutil.WithMilestone("1", "A"), testutil.WithParent("m-2"),
			testutil.WithLabels("folder::A")),
	}
	got := Strip(items, DefaultOptions())

	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0], "no folder and no label naming the parent: input returned as is")
	assert.Equal(t, "m-2", got[2].Parent())
}

func TestStrip_RestoresBoundIssuePlacedUnderDeeperMilestone(t *testing.T) {
	items := []domain.WorkItem{
		testutil.NewMilestone("1", "A"),
		testutil.NewMilestone("2", "A/B"),
		testutil.NewIssue("10", "T", testutil.WithMilestone("1", "A"), testutil.WithLabels("folder::A/B")),
	}
	built := build(items)
	require.Equal(t, "m-2", itemByID(t, built.Items, "10").Parent())

	stripped := Strip(built.All(), DefaultOptions())
	assert.Equal(t, testutil.ParentsByID(items), testutil.ParentsByID(stripped))
}

func TestStrip_RestoreRules(t *testing.T) {
	folder := domain.NewFolderNode("f-A", "A", nil)
	in := []domain.WorkItem{
		folder,
		testutil.NewMilestone("1", "A/M", testutil.WithParent("f-A")),
		testutil.NewIssue("10", "bound", testutil.WithMilestone("1", "A/M"), testutil.WithParent("f-A")),
		testutil.NewIssue("11", "unbound", testutil.WithParent("f-A")),
		testutil.NewSummary("12", "summary", testutil.WithParent("f-A")),
		testutil.NewSubTask("13", "10", "sub"),
	}
	got := Strip(in, DefaultOptions())

	require.Len(t, got, 5)
	assert.True(t, itemByID(t, got, "m-1").IsRoot())
	assert.Equal(t, "m-1", itemByID(t, got, "10").Parent())
	assert.True(t, itemByID(t, got, "11").IsRoot())
	assert.True(t, itemByID(t, got, "12").IsRoot())
	assert.Equal(t, "10", itemByID(t, got, "13").Parent())
}

func TestStrip_MilestonesPrecedeSiblings(t *testing.T) {
	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.WorkItem{
		domain.NewFolderNode("f-A", "A", nil),
		testutil.NewIssue("10", "root issue", testutil.WithOrder(5)),
		testutil.NewIssue("11", "moved issue", testutil.WithOrder(1), testutil.WithParent("f-A")),
		testutil.NewMilestone("2", "A/Late", testutil.WithParent("f-A"), testutil.WithDueDate(late)),
		testutil.NewMilestone("1", "A/Early", testutil.WithParent("f-A"), testutil.WithDueDate(early)),
		testutil.NewMilestone("3", "Undated"),
	}
	got := Strip(in, DefaultOptions())

	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"m-1", "m-2", "m-3", "11", "10"}, ids)
}

func TestSortSiblings_GroupsInFirstSeenOrder(t *testing.T) {
	in := []domain.WorkItem{
		testutil.NewSubTask("21", "10", "b", testutil.WithOrder(2)),
		testutil.NewIssue("10", "parent", testutil.WithOrder(1)),
		testutil.NewSubTask("20", "10", "a", testutil.WithOrder(1)),
		testutil.NewMilestone("1", "M", testutil.WithOrder(9)),
	}
	got := SortSiblings(in)

	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"20", "21", "m-1", "10"}, ids)
}

func TestMilestoneLess(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	a := domain.WorkItem{DueDate: &d1, Order: 9}
	b := domain.WorkItem{DueDate: &d2, Order: 1}
	undated := domain.WorkItem{Order: 0}

	assert.True(t, MilestoneLess(a, b))
	assert.False(t, MilestoneLess(b, a))
	assert.True(t, MilestoneLess(b, undated))
	assert.False(t, MilestoneLess(undated, a))

	sameDay := domain.WorkItem{DueDate: &d1, Order: 3}
	assert.True(t, MilestoneLess(sameDay, a))
}

func TestStrip_BuildTwiceSameFolders(t *testing.T) {
	items := roundTripFixture()
	first := build(items)
	second := build(Strip(first.All(), DefaultOptions()))
	assert.ElementsMatch(t, folderIDs(first.Folders), folderIDs(second.Folders))
}

// randomSnapshot draws a snapshot over a small segment alphabet so titles
// and label paths collide often. Bound issues start under their milestone,
// unbound ones at the root, matching what the tracker exports.
func randomSnapshot(r *rand.Rand) []domain.WorkItem {
	alphabet := []string{"A", "B", "C", "小"}
	randomPath := func(maxLen int) string {
		segs := make([]string, 1+r.IntN(maxLen))
		for i := range segs {
			segs[i] = alphabet[r.IntN(len(alphabet))]
		}
		return strings.Join(segs, "/")
	}

	var items []domain.WorkItem
	type bound struct{ id, title string }
	var milestones []bound
	for i := range 1 + r.IntN(4) {
		id := fmt.Sprint(i + 1)
		title := randomPath(3)
		milestones = append(milestones, bound{id, title})
		items = append(items, testutil.NewMilestone(id, title, testutil.WithOrder(r.IntN(5))))
	}

	var issueIDs []string
	for i := range r.IntN(8) {
		id := fmt.Sprint(100 + i)
		var opts []testutil.ItemOption
		opts = append(opts, testutil.WithOrder(r.IntN(5)))
		if r.IntN(3) > 0 {
			opts = append(opts, testutil.WithLabels("bug", "folder::"+randomPath(4)))
		}
		if r.IntN(2) == 0 {
			m := milestones[r.IntN(len(milestones))]
			opts = append(opts, testutil.WithMilestone(m.id, m.title))
		}
		items = append(items, testutil.NewIssue(id, "issue "+id, opts...))
		issueIDs = append(issueIDs, id)
	}
	if len(issueIDs) > 0 && r.IntN(2) == 0 {
		parent := issueIDs[r.IntN(len(issueIDs))]
		items = append(items, testutil.NewSubTask("900", parent, "sub", testutil.WithLabels("folder::A")))
	}
	if r.IntN(2) == 0 {
		items = append(items, testutil.NewSummary("950", "summary", testutil.WithLabels("folder::B")))
	}
	return items
}

func TestStrip_RandomSnapshotsRoundTrip(t *testing.T) {
	for seed := range uint64(300) {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, 0x9e3779b9))
			items := randomSnapshot(r)

			built := build(items)
			again := build(items)
			require.True(t, reflect.DeepEqual(built, again), "build is deterministic")

			stripped := Strip(built.All(), DefaultOptions())
			require.Len(t, stripped, len(items))
			assert.Equal(t, testutil.ParentsByID(items), testutil.ParentsByID(stripped))
			assert.True(t, reflect.DeepEqual(stripped, Strip(again.All(), DefaultOptions())), "strip is deterministic")

			seenOther := make(map[string]bool)
			for _, it := range stripped {
				if it.Class == domain.ClassMilestone {
					assert.False(t, seenOther[it.Parent()], "milestone %s follows a non-milestone sibling", it.ID)
					continue
				}
				seenOther[it.Parent()] = true
			}
		})
	}
}
