package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
)

// ValidateOptions relaxes checks for files that hold built output.
type ValidateOptions struct {
	// AllowFolders accepts synthetic folder rows, as written by "tree -o json".
	AllowFolders bool
}

// ValidationError folds every error from ValidateSnapshot into one, listing
// each on its own line.
func ValidationError(label string, errs []error) error {
	msg := fmt.Sprintf("%s validation failed (%d errors):", label, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return errors.New(msg)
}

// ValidateSnapshot checks a snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSnapshot(schema *SnapshotSchema, opts ValidateOptions) []error {
	var errs []error

	ids := make(map[string]bool, len(schema.Items))
	for i, it := range schema.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if it.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			continue
		}
		if ids[string(it.ID)] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, it.ID))
		}
		ids[string(it.ID)] = true
	}

	for i, it := range schema.Items {
		errs = append(errs, validateItem(fmt.Sprintf("items[%d]", i), it, ids, opts)...)
	}
	return errs
}

func validateItem(prefix string, it ItemRecord, ids map[string]bool, opts ValidateOptions) []error {
	var errs []error

	class, err := domain.ParseClassification(it.Type)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
	} else if class == domain.ClassFolder && !opts.AllowFolders {
		errs = append(errs, fmt.Errorf("%s: folder rows are derived and cannot be imported", prefix))
	}

	if !isRootRef(it.Parent) && !ids[string(it.Parent)] {
		errs = append(errs, fmt.Errorf("%s.parent: %q does not reference an item in the snapshot", prefix, it.Parent))
	}
	if it.Parent != "" && it.Parent == it.ID {
		errs = append(errs, fmt.Errorf("%s.parent: item cannot be its own parent", prefix))
	}

	if class == domain.ClassMilestone {
		if it.MilestoneID == "" {
			errs = append(errs, fmt.Errorf("%s.milestone_id is required for milestones", prefix))
		} else if want := domain.MilestoneItemID(string(it.MilestoneID)); string(it.ID) != want {
			errs = append(errs, fmt.Errorf("%s.id: milestone id must be %q", prefix, want))
		}
	}

	errs = append(errs, validateDate(prefix+".start_date", it.StartDate)...)
	errs = append(errs, validateDate(prefix+".due_date", it.DueDate)...)
	if start, due := parseOptionalDate(it.StartDate), parseOptionalDate(it.DueDate); start != nil && due != nil && due.Before(*start) {
		errs = append(errs, fmt.Errorf("%s.due_date %q is before start_date %q", prefix, *it.DueDate, *it.StartDate))
	}
	return errs
}

func validateDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, *s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}

// isRootRef reports whether a wire parent value means "top level".
func isRootRef(p FlexID) bool {
	return p == "" || p == domain.RootParentWire
}
