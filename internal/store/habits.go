package store

import (
	"context"
	"fmt"
	"time"
)

func (s *Store) InsertHabit(ctx context.Context, h HabitRecord) error {
	created := h.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		h.ID, h.Name, h.Color, created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context) ([]HabitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM habits ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []HabitRecord
	for rows.Next() {
		var h HabitRecord
		var createdAt string
		if err := rows.Scan(&h.ID, &h.Name, &h.Color, &createdAt); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) RenameHabit(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habits SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename habit %s: %w", id, err)
	}
	return expectRow(res, "habit", id)
}

// DeleteHabit removes the habit row only. Entries must be removed first;
// the foreign key rejects the delete otherwise.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return expectRow(res, "habit", id)
}
