package domain

// MilestoneItemPrefix marks row identifiers synthesized for milestones.
const MilestoneItemPrefix = "m-"

// MilestoneItemID derives the row identifier of a milestone from the
// tracker's milestone id, as carried in an item's binding field.
func MilestoneItemID(milestoneID string) string {
	return MilestoneItemPrefix + milestoneID
}
