package store

import (
	"context"
	"fmt"

	"github.com/sadopc/habitmap/internal/theme"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadTheme and SaveTheme make the settings table a theme.Persister.
func (s *Store) LoadTheme(_ context.Context) (theme.Theme, error) {
	v, err := s.GetSetting("theme")
	if err != nil {
		return theme.Light, err
	}
	return theme.Parse(v)
}

func (s *Store) SaveTheme(_ context.Context, t theme.Theme) error {
	if err := s.SetSetting("theme", string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
