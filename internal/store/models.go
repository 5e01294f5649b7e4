package store

import "time"

// HabitRecord is a row of the habits table.
type HabitRecord struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// Entry is a row of the habit_entries table.
type Entry struct {
	HabitID   string
	Date      string // YYYY-MM-DD
	Completed bool
}

type Setting struct {
	Key   string
	Value string
}
