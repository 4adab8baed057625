package hierarchy

import "github.com/alexanderramin/ganttfold/internal/domain"

// FolderID is the canonical identifier of the folder at path.
func FolderID(path []string, opts Options) string {
	opts = opts.withDefaults()
	return opts.FolderIDPrefix + joinPath(path, opts.Separator)
}

// folderSet deduplicates folders by identifier within one Build call and
// remembers creation order so output is deterministic.
type folderSet struct {
	opts  Options
	index map[string]int
	nodes []domain.WorkItem
}

func newFolderSet(opts Options) *folderSet {
	return &folderSet{opts: opts, index: make(map[string]int)}
}

// getOrCreate returns the folder for path, creating it under parent on
// first request. A later request keeps the first parent.
func (s *folderSet) getOrCreate(path []string, parent *string) domain.WorkItem {
	id := FolderID(path, s.opts)
	if i, ok := s.index[id]; ok {
		return s.nodes[i]
	}
	node := domain.NewFolderNode(id, path[len(path)-1], parent)
	s.index[id] = len(s.nodes)
	s.nodes = append(s.nodes, node)
	return node
}

// chain materializes path[from:] as nested folders starting under parent
// and returns the deepest parent reached. With nothing left to build it
// returns parent itself.
func (s *folderSet) chain(path []string, from int, parent *string) *string {
	for i := from; i < len(path); i++ {
		node := s.getOrCreate(path[:i+1], parent)
		parent = domain.StrPtr(node.ID)
	}
	return parent
}

func (s *folderSet) list() []domain.WorkItem {
	out := make([]domain.WorkItem, len(s.nodes))
	copy(out, s.nodes)
	return out
}
