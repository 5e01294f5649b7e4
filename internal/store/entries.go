package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

func (s *Store) ListEntries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT habit_id, date, completed FROM habit_entries ORDER BY habit_id, date`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completed int
		if err := rows.Scan(&e.HabitID, &e.Date, &completed); err != nil {
			return nil, err
		}
		e.Completed = completed == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertEntry is a no-op when the (habit, date) pair already exists.
func (s *Store) InsertEntry(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habit_entries (habit_id, date, completed) VALUES (?, ?, ?)
		 ON CONFLICT(habit_id, date) DO NOTHING`,
		e.HabitID, e.Date, boolInt(e.Completed),
	)
	if err != nil {
		return fmt.Errorf("insert entry %s/%s: %w", e.HabitID, e.Date, err)
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, habitID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM habit_entries WHERE habit_id = ? AND date = ?`, habitID, date)
	if err != nil {
		return fmt.Errorf("delete entry %s/%s: %w", habitID, date, err)
	}
	return nil
}

func (s *Store) DeleteEntries(ctx context.Context, habitID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habit_entries WHERE habit_id = ?`, habitID)
	if err != nil {
		return fmt.Errorf("delete entries of %s: %w", habitID, err)
	}
	return nil
}

// ToggleEntry flips completion of (habitID, date) inside one transaction and
// reports whether the day is completed afterwards.
func (s *Store) ToggleEntry(ctx context.Context, habitID, date string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM habit_entries WHERE habit_id = ? AND date = ?`, habitID, date)
	if err != nil {
		return false, fmt.Errorf("toggle entry %s/%s: %w", habitID, date, err)
	}
	n, _ := res.RowsAffected()
	completed := n == 0
	if completed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO habit_entries (habit_id, date, completed) VALUES (?, ?, 1)
			 ON CONFLICT (habit_id, date) DO NOTHING`,
			habitID, date,
		); err != nil {
			return false, fmt.Errorf("toggle entry %s/%s: %w", habitID, date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return completed, nil
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
