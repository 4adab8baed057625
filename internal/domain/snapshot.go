package domain

import "time"

// Snapshot describes one imported copy of the tracker's flat item list.
type Snapshot struct {
	ID         string
	Source     string
	ItemCount  int
	ImportedAt time.Time
}
