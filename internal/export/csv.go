package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/habitmap/internal/habit"
)

// ToCSV writes one row per completed date. A habit with no completed days
// still gets a row with an empty Date so it is not lost.
func ToCSV(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, habits); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(out io.Writer, habits []habit.Habit) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Name", "Color", "Date"}); err != nil {
		return err
	}

	for _, h := range habits {
		dates := h.CompletedDates.Sorted()
		if len(dates) == 0 {
			dates = []string{""}
		}
		for _, d := range dates {
			if err := w.Write([]string{h.ID, h.Name, h.Color, d}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
