package domain

import "fmt"

// Classification is the closed set of row kinds a snapshot can contain.
type Classification string

const (
	ClassIssue     Classification = "issue"
	ClassSubTask   Classification = "subtask"
	ClassMilestone Classification = "milestone"
	ClassSummary   Classification = "summary"
	ClassFolder    Classification = "folder"
)

// Classifications lists every classification in display order.
var Classifications = []Classification{
	ClassIssue, ClassSubTask, ClassMilestone, ClassSummary, ClassFolder,
}

// IsValid returns true if the classification is a recognized value.
func (c Classification) IsValid() bool {
	switch c {
	case ClassIssue, ClassSubTask, ClassMilestone, ClassSummary, ClassFolder:
		return true
	}
	return false
}

// IsSynthetic reports whether rows of this class are derived rather than synced.
func (c Classification) IsSynthetic() bool {
	return c == ClassFolder
}

// ParseClassification maps a wire type string to a Classification.
// "task" is accepted as an alias for sub-tasks, matching the tracker export.
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "task":
		return ClassSubTask, nil
	case "":
		return ClassIssue, nil
	}
	c := Classification(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown classification %q", s)
	}
	return c, nil
}
