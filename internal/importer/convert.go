package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Convert transforms a validated snapshot into domain items, keeping the
// file's row order. Call ValidateSnapshot first; Convert assumes the
// snapshot is valid.
func Convert(schema *SnapshotSchema) ([]domain.WorkItem, error) {
	items := make([]domain.WorkItem, 0, len(schema.Items))
	for i, rec := range schema.Items {
		class, err := domain.ParseClassification(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		var parentID *string
		if !isRootRef(rec.Parent) {
			parentID = domain.StrPtr(string(rec.Parent))
		}

		items = append(items, domain.WorkItem{
			ID:             string(rec.ID),
			ParentID:       parentID,
			Text:           rec.Text,
			Labels:         string(rec.Labels),
			Class:          class,
			MilestoneID:    string(rec.MilestoneID),
			MilestoneTitle: rec.MilestoneTitle,
			Order:          rec.Order,
			StartDate:      parseOptionalDate(rec.StartDate),
			DueDate:        parseOptionalDate(rec.DueDate),
		})
	}
	return items, nil
}

// ToSchema converts domain items back to the wire layout. The root parent
// is written as the literal "0".
func ToSchema(source string, items []domain.WorkItem) *SnapshotSchema {
	schema := &SnapshotSchema{Source: source, Items: make([]ItemRecord, 0, len(items))}
	for _, it := range items {
		parent := FlexID(domain.RootParentWire)
		if it.ParentID != nil {
			parent = FlexID(*it.ParentID)
		}
		schema.Items = append(schema.Items, ItemRecord{
			ID:             FlexID(it.ID),
			Parent:         parent,
			Text:           it.Text,
			Labels:         LabelString(it.Labels),
			Type:           string(it.Class),
			MilestoneID:    FlexID(it.MilestoneID),
			MilestoneTitle: it.MilestoneTitle,
			Order:          it.Order,
			StartDate:      formatOptionalDate(it.StartDate),
			DueDate:        formatOptionalDate(it.DueDate),
		})
	}
	return schema
}

// EncodeSnapshot writes schema in the given format.
func EncodeSnapshot(w io.Writer, schema *SnapshotSchema, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schema); err != nil {
			return fmt.Errorf("encoding snapshot yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(schema); err != nil {
			return fmt.Errorf("encoding snapshot json: %w", err)
		}
		return nil
	}
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
