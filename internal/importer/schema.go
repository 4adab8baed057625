package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SnapshotSchema is the top-level structure of a synced snapshot file.
type SnapshotSchema struct {
	Source string       `json:"source,omitempty" yaml:"source,omitempty"`
	Items  []ItemRecord `json:"items" yaml:"items"`
}

// ItemRecord is one row as the sync layer writes it.
type ItemRecord struct {
	ID             FlexID      `json:"id" yaml:"id"`
	Parent         FlexID      `json:"parent" yaml:"parent"`
	Text           string      `json:"text" yaml:"text"`
	Labels         LabelString `json:"labels,omitempty" yaml:"labels,omitempty"`
	Type           string      `json:"type" yaml:"type"`
	MilestoneID    FlexID      `json:"milestone_id,omitempty" yaml:"milestone_id,omitempty"`
	MilestoneTitle string      `json:"milestone_title,omitempty" yaml:"milestone_title,omitempty"`
	Order          int         `json:"order" yaml:"order"`
	StartDate      *string     `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	DueDate        *string     `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

// FlexID accepts identifiers written as strings or integers.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("identifier must be a string or integer, got %s", b)
	}
	*f = FlexID(n.String())
	return nil
}

func (f *FlexID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: identifier must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = FlexID(node.Value)
	return nil
}

// LabelString is the raw comma-separated label string. It also accepts a
// list of labels, which it joins with commas.
type LabelString string

func (l *LabelString) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = LabelString(strings.Join(list, ","))
		return nil
	}
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("labels must be a string or a list of strings")
	}
	if s != nil {
		*l = LabelString(*s)
	}
	return nil
}

func (l *LabelString) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = LabelString(strings.Join(list, ","))
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			*l = LabelString(node.Value)
		}
	default:
		return fmt.Errorf("line %d: labels must be a string or a list", node.Line)
	}
	return nil
}

// Format is a snapshot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension; JSON is the default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DecodeSnapshot parses a snapshot in the given format.
func DecodeSnapshot(r io.Reader, format Format) (*SnapshotSchema, error) {
	var schema SnapshotSchema
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&schema); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing snapshot yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing snapshot json: %w", err)
		}
	}
	return &schema, nil
}

// LoadSnapshotFile reads and parses a snapshot file. Source defaults to
// the file's base name.
func LoadSnapshotFile(path string) (*SnapshotSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	schema, err := DecodeSnapshot(f, FormatForPath(path))
	if err != nil {
		return nil, err
	}
	if schema.Source == "" {
		schema.Source = filepath.Base(path)
	}
	return schema, nil
}
