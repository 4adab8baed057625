package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/spf13/pflag"
)

// classFilter is a repeatable --class flag. Each value may itself be a
// comma-separated list.
type classFilter struct {
	set map[domain.Classification]bool
}

var _ pflag.Value = (*classFilter)(nil)

func (f *classFilter) String() string {
	if f == nil || len(f.set) == 0 {
		return ""
	}
	var names []string
	for _, c := range domain.Classifications {
		if f.set[c] {
			names = append(names, string(c))
		}
	}
	return strings.Join(names, ",")
}

func (f *classFilter) Set(v string) error {
	if f.set == nil {
		f.set = make(map[domain.Classification]bool)
	}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := domain.ParseClassification(part)
		if err != nil {
			return fmt.Errorf("%w (want one of %s)", err, classNames())
		}
		f.set[c] = true
	}
	return nil
}

func (f *classFilter) Type() string { return "class" }

// Match reports whether c passes the filter. An empty filter passes all.
func (f *classFilter) Match(c domain.Classification) bool {
	return len(f.set) == 0 || f.set[c]
}

func (f *classFilter) Empty() bool { return len(f.set) == 0 }

func classNames() string {
	names := make([]string, 0, len(domain.Classifications))
	for _, c := range domain.Classifications {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
