package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/habitmap/internal/habit"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Habits     []jsonHabit `json:"habits"`
}

type jsonHabit struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Color          string   `json:"color"`
	CreatedAt      string   `json:"created_at,omitempty"`
	CompletedCount int      `json:"completed_count"`
	CompletedDates []string `json:"completed_dates"`
}

func ToJSON(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, habits, time.Now()); err != nil {
		return err
	}
	return f.Close()
}

func WriteJSON(w io.Writer, habits []habit.Habit, now time.Time) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(habits),
		Habits:     make([]jsonHabit, 0, len(habits)),
	}

	for _, h := range habits {
		created := ""
		if !h.CreatedAt.IsZero() {
			created = h.CreatedAt.UTC().Format(time.RFC3339)
		}
		dates := h.CompletedDates.Sorted()
		export.Habits = append(export.Habits, jsonHabit{
			ID:             h.ID,
			Name:           h.Name,
			Color:          h.Color,
			CreatedAt:      created,
			CompletedCount: len(dates),
			CompletedDates: dates,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
