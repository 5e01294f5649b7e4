package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/habit"
)

const nameWidth = 24

type AddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *AddCmd) Run(ctx *Context) error {
	call, cancel := ctx.call()
	defer cancel()

	h, err := ctx.Tracker.Add(call, c.Name)
	if err != nil {
		if errors.Is(err, habit.ErrEmptyName) {
			return errors.New("habit name cannot be empty")
		}
		return fmt.Errorf("add habit: %w", err)
	}
	ctx.printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type ListCmd struct {
	Year int `help:"Year the completion share is computed for (default: current year)."`
}

func (c *ListCmd) Run(ctx *Context) error {
	habits := ctx.Tracker.Habits()
	if len(habits) == 0 {
		ctx.printf("No habits added yet.\n")
		return nil
	}

	year := c.Year
	if year == 0 {
		year = ctx.today().Year()
	}

	ctx.printf("%-36s  %-*s  %-7s  %s\n", "ID", nameWidth, "NAME", "COLOR", fmt.Sprint(year))
	for _, h := range habits {
		ctx.printf("%-36s  %-*s  %-7s  %d%%\n",
			h.ID, nameWidth, truncate(h.Name, nameWidth), h.Color,
			calendar.Percentage(h.CompletedDates, year))
	}
	return nil
}

type RenameCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *RenameCmd) Run(ctx *Context) error {
	h, err := ctx.lookup(c.Habit)
	if err != nil {
		return err
	}

	// Same path as the TUI editor: a blank draft is dropped.
	var ed habit.Editor
	ed.Start(h.ID, h.Name)
	ed.SetDraft(c.Name)

	call, cancel := ctx.call()
	defer cancel()
	if err := ed.Save(call, ctx.Tracker); err != nil {
		return fmt.Errorf("rename habit: %w", err)
	}

	renamed, _ := ctx.Tracker.Find(h.ID)
	if renamed.Name == h.Name {
		ctx.printf("Name unchanged: %s\n", h.Name)
		return nil
	}
	ctx.printf("Renamed %s to %s\n", h.Name, renamed.Name)
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, err := ctx.lookup(c.Habit)
	if err != nil {
		return err
	}

	call, cancel := ctx.call()
	defer cancel()
	if err := ctx.Tracker.Delete(call, h.ID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Day to toggle as YYYY-MM-DD (default: today)."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	h, err := ctx.lookup(c.Habit)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = calendar.DateString(calendar.Today(ctx.today()))
	}

	call, cancel := ctx.call()
	defer cancel()
	done, err := ctx.Tracker.Toggle(call, h.ID, date)
	if err != nil {
		return fmt.Errorf("toggle habit: %w", err)
	}

	state := "cleared"
	if done {
		state = "completed"
	}
	ctx.printf("%s: %s %s\n", h.Name, date, state)
	return nil
}

type ShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Year  int    `help:"Year to draw (default: current year)."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	h, err := ctx.lookup(c.Habit)
	if err != nil {
		return err
	}

	today := calendar.Today(ctx.today())
	year := c.Year
	if year == 0 {
		year = today.Year()
	}

	done := calendar.CompletedInYear(h.CompletedDates, year)
	current, longest := calendar.Streaks(h.CompletedDates, today)
	ctx.printf("%s  %d\n", h.Name, year)
	ctx.printf("Completed %d of %d days (%d%%)\n\n",
		done, calendar.DaysInYear(year), calendar.Percentage(h.CompletedDates, year))
	ctx.printf("%s\n\n", asciiHeatmap(h.CompletedDates, year, calendar.DateString(today)))
	ctx.printf("Current streak: %d  Longest streak: %d\n", current, longest)
	return nil
}

var asciiDayLabels = [7]string{"Sun", "", "Tue", "", "Thu", "", "Sat"}

// asciiHeatmap draws one column per week: '#' completed, '.' open, '@'
// today when open, '*' today when completed, blank outside year.
func asciiHeatmap(dates calendar.DateSet, year int, today string) string {
	weeks := calendar.Weeks(year)

	months := []rune(strings.Repeat(" ", len(weeks)+3))
	for _, l := range calendar.MonthLabels(weeks, year) {
		copy(months[l.WeekIndex:], []rune(l.Month))
	}

	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(strings.TrimRight(string(months), " "))
	for row := 0; row < 7; row++ {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-4s", asciiDayLabels[row])
		for _, w := range weeks {
			d := w[row]
			switch {
			case !d.InYear:
				b.WriteByte(' ')
			case d.DateString == today && dates.Has(d.DateString):
				b.WriteByte('*')
			case dates.Has(d.DateString):
				b.WriteByte('#')
			case d.DateString == today:
				b.WriteByte('@')
			default:
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
