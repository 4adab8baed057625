// Package hierarchy overlays a virtual folder tree on a flat snapshot of
// tracker items. Folders come from scoped "folder::a/b" labels and from
// milestone titles that contain the path separator. Build derives the tree,
// Strip reverses it. Both are pure functions of their input.
package hierarchy

import "github.com/alexanderramin/ganttfold/internal/domain"

const (
	DefaultLabelPrefix    = "folder::"
	DefaultSeparator      = "/"
	DefaultFolderIDPrefix = "f-"
)

// Options controls label and identifier syntax.
type Options struct {
	LabelPrefix    string
	Separator      string
	FolderIDPrefix string
	// PathClass is the only classification whose labels are consulted.
	PathClass domain.Classification
}

// DefaultOptions returns the options matching the tracker's conventions.
func DefaultOptions() Options {
	return Options{
		LabelPrefix:    DefaultLabelPrefix,
		Separator:      DefaultSeparator,
		FolderIDPrefix: DefaultFolderIDPrefix,
		PathClass:      domain.ClassIssue,
	}
}

// withDefaults fills any zero field from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	o.LabelPrefix = domain.CoalesceStr(o.LabelPrefix, d.LabelPrefix)
	o.Separator = domain.CoalesceStr(o.Separator, d.Separator)
	o.FolderIDPrefix = domain.CoalesceStr(o.FolderIDPrefix, d.FolderIDPrefix)
	if o.PathClass == "" {
		o.PathClass = d.PathClass
	}
	return o
}
