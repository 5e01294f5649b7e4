package pgstore

import (
	"context"
	"fmt"

	"github.com/sadopc/habitmap/internal/store"
)

func (s *Store) ListEntries(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT habit_id, date, completed FROM habit_entries ORDER BY habit_id, date`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var e store.Entry
		if err := rows.Scan(&e.HabitID, &e.Date, &e.Completed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) InsertEntry(ctx context.Context, e store.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habit_entries (habit_id, date, completed) VALUES ($1, $2, $3)
		 ON CONFLICT (habit_id, date) DO NOTHING`,
		e.HabitID, e.Date, e.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert entry %s/%s: %w", e.HabitID, e.Date, err)
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, habitID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM habit_entries WHERE habit_id = $1 AND date = $2`, habitID, date)
	if err != nil {
		return fmt.Errorf("delete entry %s/%s: %w", habitID, date, err)
	}
	return nil
}

func (s *Store) DeleteEntries(ctx context.Context, habitID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habit_entries WHERE habit_id = $1`, habitID)
	if err != nil {
		return fmt.Errorf("delete entries of %s: %w", habitID, err)
	}
	return nil
}

// ToggleEntry flips completion of (habitID, date) in one transaction and
// reports whether the day is completed afterwards. Under READ COMMITTED two
// concurrent toggles may both find no row; the later insert is then a no-op.
func (s *Store) ToggleEntry(ctx context.Context, habitID, date string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM habit_entries WHERE habit_id = $1 AND date = $2`, habitID, date)
	if err != nil {
		return false, fmt.Errorf("toggle entry %s/%s: %w", habitID, date, err)
	}
	n, _ := res.RowsAffected()
	completed := n == 0
	if completed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO habit_entries (habit_id, date, completed) VALUES ($1, $2, TRUE)
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
