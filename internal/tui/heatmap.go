package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/habit"
	"github.com/sadopc/habitmap/internal/theme"
)

const (
	cellGlyph      = "■"
	todayGlyph     = "□"
	todayDoneGlyph = "▣"
	cellWidth      = 2
	dayLabelWidth  = 4
	legendLevels   = 4
)

// Only every other weekday is labelled to keep the column readable.
var dayLabels = [7]string{"Sun", "", "Tue", "", "Thu", "", "Sat"}

type heatmapOpts struct {
	year     int
	today    string
	cursor   string // empty: no cursor
	maxWeeks int    // 0: all weeks
	pal      theme.Palette
}

func cellColor(d calendar.Day, done bool, habitColor string, pal theme.Palette) string {
	switch {
	case !d.InYear:
		return pal.OutOfYear
	case done:
		return habitColor
	default:
		return pal.Empty
	}
}

// window returns the [start, end) range of at most limit items that
// contains focus. limit <= 0 means everything.
func window(total, focus, limit int) (int, int) {
	if limit <= 0 || limit >= total {
		return 0, total
	}
	start := clamp(focus-limit/2, 0, total-limit)
	return start, start + limit
}

// weekOf returns the index of the week containing date, or -1.
func weekOf(weeks []calendar.Week, date string) int {
	for i, w := range weeks {
		for _, d := range w {
			if d.DateString == date {
				return i
			}
		}
	}
	return -1
}

func renderHeatmap(h habit.Habit, o heatmapOpts) string {
	weeks := calendar.Weeks(o.year)
	labels := calendar.MonthLabels(weeks, o.year)

	focus := weekOf(weeks, o.cursor)
	if focus < 0 {
		focus = weekOf(weeks, o.today)
	}
	if focus < 0 {
		focus = 0
	}
	start, end := window(len(weeks), focus, o.maxWeeks)

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(o.pal.Muted))
	var b strings.Builder

	b.WriteString(muted.Render(monthRow(labels, start, end)))
	b.WriteString("\n")

	for row := 0; row < 7; row++ {
		b.WriteString(muted.Render(fmt.Sprintf("%-*s", dayLabelWidth, dayLabels[row])))
		for wi := start; wi < end; wi++ {
			d := weeks[wi][row]
			b.WriteString(renderCell(h, d, o))
			b.WriteString(" ")
		}
		if row < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func monthRow(labels []calendar.MonthLabel, start, end int) string {
	width := dayLabelWidth + (end-start)*cellWidth
	row := []rune(strings.Repeat(" ", width))
	for _, l := range labels {
		if l.WeekIndex < start || l.WeekIndex >= end {
			continue
		}
		col := dayLabelWidth + (l.WeekIndex-start)*cellWidth
		for i, r := range l.Month {
			if col+i < len(row) {
				row[col+i] = r
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}

func renderCell(h habit.Habit, d calendar.Day, o heatmapOpts) string {
	done := h.CompletedDates.Has(d.DateString)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(cellColor(d, done, h.Color, o.pal)))
	glyph := cellGlyph

	if d.DateString == o.today && d.InYear {
		style = style.Foreground(lipgloss.Color(h.Color))
		glyph = todayGlyph
		if done {
			glyph = todayDoneGlyph
		}
	}
	if d.DateString == o.cursor {
		style = style.Background(lipgloss.Color(o.pal.Text))
	}
	return style.Render(glyph)
}

// legendColors fades the habit color toward the empty-cell color.
func legendColors(habitColor string, pal theme.Palette) []string {
	out := []string{pal.Empty}
	base, err1 := colorful.Hex(habitColor)
	empty, err2 := colorful.Hex(pal.Empty)
	if err1 != nil || err2 != nil {
		for i := 0; i < legendLevels; i++ {
			out = append(out, habitColor)
		}
		return out
	}
	for _, t := range []float64{0.3, 0.6, 0.8, 1} {
		out = append(out, empty.BlendRgb(base, t).Clamped().Hex())
	}
	return out
}

func renderLegend(habitColor string, pal theme.Palette) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted))
	var cells []string
	for _, c := range legendColors(habitColor, pal) {
		cells = append(cells, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(cellGlyph))
	}
	return muted.Render("Less ") + strings.Join(cells, " ") + muted.Render(" More")
}

// moveCursor shifts date by days, staying inside the grid of year.
func moveCursor(date time.Time, days, year int) time.Time {
	weeks := calendar.Weeks(year)
	first := weeks[0][0].Date
	last := weeks[len(weeks)-1][6].Date
	next := date.AddDate(0, 0, days)
	if next.Before(first) {
		return first
	}
	if next.After(last) {
		return last
	}
	return next
}

// maxWeeksFor returns how many week columns fit in width.
func maxWeeksFor(width int) int {
	cols := (width - dayLabelWidth - 6) / cellWidth
	if cols < 4 {
		cols = 4
	}
	return cols
}
