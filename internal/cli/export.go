package cli

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/export"
	"github.com/sadopc/habitmap/internal/logger"
)

type ExportCmd struct {
	Format string `help:"Output format." enum:"csv,json" default:"csv"`
	Out    string `help:"Output file, or - for stdout (default: habitmap-export-DATE.FORMAT in the export directory)." short:"o"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	habits := ctx.Tracker.Habits()

	if c.Out == "-" {
		if c.Format == "json" {
			return export.WriteJSON(ctx.out(), habits, ctx.today())
		}
		return export.WriteCSV(ctx.out(), habits)
	}

	path := c.Out
	if path == "" {
		date := calendar.DateString(calendar.Today(ctx.today()))
		path = filepath.Join(ctx.ExportDir, fmt.Sprintf("habitmap-export-%s.%s", date, c.Format))
	}

	var err error
	if c.Format == "json" {
		err = export.ToJSON(habits, path)
	} else {
		err = export.ToCSV(habits, path)
	}
	if err != nil {
		return fmt.Errorf("export habits: %w", err)
	}

	logger.Info("Exported habits", "path", path, "count", len(habits))
	ctx.printf("Exported %d habits to %s\n", len(habits), path)
	return nil
}
