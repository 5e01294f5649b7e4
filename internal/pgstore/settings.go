package pgstore

import (
	"context"
	"fmt"

	"github.com/sadopc/habitmap/internal/theme"
)

func (s *Store) LoadTheme(ctx context.Context) (theme.Theme, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'theme'`).Scan(&v)
	if err != nil {
		return theme.Light, fmt.Errorf("load theme: %w", err)
	}
	return theme.Parse(v)
}

func (s *Store) SaveTheme(ctx context.Context, t theme.Theme) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('theme', $1)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		string(t),
	)
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
