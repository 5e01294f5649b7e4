package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/habit"
)

type statsModel struct {
	width  int
	height int

	habit   habit.Habit
	hasData bool
	year    int

	counts    [12]int
	completed int
	percent   int
	current   int
	longest   int

	chart barchart.Model
}

func newStatsModel() statsModel {
	return statsModel{chart: barchart.New(60, 12)}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// build recomputes the numbers and the chart for h in year.
func (s *statsModel) build(h habit.Habit, ok bool, year int, today time.Time) {
	s.habit = h
	s.hasData = ok
	s.year = year
	if !ok {
		return
	}

	s.counts = calendar.MonthlyCounts(h.CompletedDates, year)
	s.completed = calendar.CompletedInYear(h.CompletedDates, year)
	s.percent = calendar.Percentage(h.CompletedDates, year)
	s.current, s.longest = calendar.Streaks(h.CompletedDates, today)

	chartWidth := s.width - 8
	if chartWidth < 24 {
		chartWidth = 24
	}
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}
	s.chart = barchart.New(chartWidth, chartHeight)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color))
	bars := make([]barchart.BarData, 0, len(s.counts))
	for i, n := range s.counts {
		bars = append(bars, barchart.BarData{
			Label: time.Month(i + 1).String()[:3],
			Values: []barchart.BarValue{{
				Name:  h.Name,
				Value: float64(n),
				Style: style,
			}},
		})
	}
	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view(st styles) string {
	w := s.width - 4

	if !s.hasData {
		return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			st.title.Render("Stats"),
			"",
			st.muted.Render("No habits added yet."),
		))
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.habit.Color)).Render("●")
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		st.title.Render("Stats"), "  ", dot, " ", st.title.Render(s.habit.Name), "  ",
		st.accent.Render(fmt.Sprintf("%d", s.year)),
	)

	summary := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("  Completed       %s", st.success.Render(fmt.Sprintf("%d of %d days (%d%%)",
			s.completed, calendar.DaysInYear(s.year), s.percent))),
		fmt.Sprintf("  Current streak  %s", st.accent.Render(pluralDays(s.current))),
		fmt.Sprintf("  Longest streak  %s", st.accent.Render(pluralDays(s.longest))),
	)

	nav := st.muted.Render("  J/K: habit  [/]: year")

	return st.panel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", summary, "", s.chart.View(), "", nav,
		),
	)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
