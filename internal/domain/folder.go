package domain

// NewFolderNode builds a synthetic grouping row. Folders carry no dates,
// labels or milestone binding; they only contain other rows.
func NewFolderNode(id, text string, parentID *string) WorkItem {
	return WorkItem{
		ID:       id,
		ParentID: parentID,
		Text:     text,
		Class:    ClassFolder,
	}
}
