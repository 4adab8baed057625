package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveSnapshotID maps user input to a snapshot id. Empty input selects
// the latest snapshot; otherwise an exact id or unique id prefix is needed.
func resolveSnapshotID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	snaps, err := app.Snapshots.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range snaps {
		if s.ID == input {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("snapshot not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("snapshot ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
