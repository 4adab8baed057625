package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSyntheticItem is returned when a caller tries to persist a folder
	// row. Folders are recomputed from each snapshot and never stored.
	ErrSyntheticItem = errors.New("synthetic folder rows cannot be stored")
)

const (
	dateLayout = "2006-01-02"
	// timestampLayout has fixed-width fractions so stored values sort as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)
