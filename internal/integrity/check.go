// Package integrity verifies that a built tree is a well-formed forest and
// that stripping it restores the flat snapshot it came from.
package integrity

import (
	"errors"
	"sort"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Drift records a row whose parent after Build+Strip differs from the
// snapshot.
type Drift struct {
	ID     string
	Before string
	After  string
}

// Report is the outcome of Check. Parent ids are "" for the root.
type Report struct {
	Items    int
	Folders  int
	Dangling []string
	Cycles   [][]string
	Drift    []Drift
	// Leftover lists folder rows Strip failed to remove.
	Leftover []string
}

// OK reports whether no problem was found.
func (r Report) OK() bool {
	return len(r.Dangling) == 0 && len(r.Cycles) == 0 && len(r.Drift) == 0 && len(r.Leftover) == 0
}

// Check builds the tree for items, checks its parent graph, then strips it
// and compares every row's parent with the input.
func Check(items []domain.WorkItem, opts hierarchy.Options) Report {
	built := hierarchy.Build(items, hierarchy.Milestones(items), opts)
	all := built.All()

	report := Report{Items: len(items), Folders: len(built.Folders)}
	report.Dangling, report.Cycles = ParentGraph(all)

	before := parents(items)
	stripped := hierarchy.Strip(all, opts)
	for _, it := range stripped {
		if it.Class == domain.ClassFolder {
			report.Leftover = append(report.Leftover, it.ID)
			continue
		}
		if b, ok := before[it.ID]; ok && b != it.Parent() {
			report.Drift = append(report.Drift, Drift{ID: it.ID, Before: b, After: it.Parent()})
		}
	}
	return report
}

// ParentGraph loads parent→child edges into a directed graph and returns
// the ids of rows whose parent is missing and every parent cycle.
func ParentGraph(items []domain.WorkItem) (dangling []string, cycles [][]string) {
	g := simple.NewDirectedGraph()
	nodeOf := make(map[string]int64, len(items))
	idOf := make(map[int64]string, len(items))
	for i, it := range items {
		n := int64(i)
		if _, dup := nodeOf[it.ID]; dup {
			continue
		}
		nodeOf[it.ID] = n
		idOf[n] = it.ID
		g.AddNode(simple.Node(n))
	}

	for _, it := range items {
		if it.IsRoot() {
			continue
		}
		from, ok := nodeOf[it.Parent()]
		if !ok {
			dangling = append(dangling, it.ID)
			continue
		}
		to := nodeOf[it.ID]
		if from == to {
			cycles = append(cycles, []string{it.ID})
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	if _, err := topo.Sort(g); err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) {
			for _, component := range unorderable {
				cycles = append(cycles, idsOf(component, idOf))
			}
		}
	}
	return dangling, cycles
}

func idsOf(nodes []graph.Node, idOf map[int64]string) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, idOf[n.ID()])
	}
	sort.Strings(ids)
	return ids
}

func parents(items []domain.WorkItem) map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[it.ID] = it.Parent()
	}
	return m
}
