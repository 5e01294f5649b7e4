package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/habitmap/internal/store"
)

func (s *Store) InsertHabit(ctx context.Context, h store.HabitRecord) error {
	created := h.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits (id, name, color, created_at) VALUES ($1, $2, $3, $4)`,
		h.ID, h.Name, h.Color, created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context) ([]store.HabitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []store.HabitRecord
	for rows.Next() {
		var h store.HabitRecord
		if err := rows.Scan(&h.ID, &h.Name, &h.Color, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) RenameHabit(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habits SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename habit %s: %w", id, err)
	}
	return expectRow(res, "habit", id)
}

// DeleteHabit removes the habit row only; entries must already be gone.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return expectRow(res, "habit", id)
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
