package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the canonical on-disk form of a calendar day.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Day is one cell of the heatmap grid.
type Day struct {
	Date       time.Time
	DateString string
	InYear     bool
}

// Week is a Sunday-first run of seven consecutive days.
type Week [7]Day

type MonthLabel struct {
	Month     string
	WeekIndex int
}

// Date returns the civil date at UTC midnight. Grid arithmetic stays in UTC
// so adding a day never lands on a DST boundary.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the civil date of now in now's own location.
func Today(now time.Time) time.Time {
	return Date(now.Year(), now.Month(), now.Day())
}

func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate accepts only canonical YYYY-MM-DD strings.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func DaysInYear(year int) int {
	return Date(year, time.December, 31).YearDay()
}

// Weeks returns the grid for year: it starts on the Sunday on or before
// January 1 and ends with the week that contains December 31.
func Weeks(year int) []Week {
	jan1 := Date(year, time.January, 1)
	dec31 := Date(year, time.December, 31)
	cur := jan1.AddDate(0, 0, -int(jan1.Weekday()))

	var weeks []Week
	for !cur.After(dec31) {
		var w Week
		for i := range w {
			w[i] = Day{
				Date:       cur,
				DateString: DateString(cur),
				InYear:     cur.Year() == year,
			}
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, w)
	}
	return weeks
}

// MonthLabels places a month abbreviation on every week whose Sunday falls
// within the first seven days of a month of year. Weeks whose Sunday belongs
// to the previous year never get a label.
func MonthLabels(weeks []Week, year int) []MonthLabel {
	var labels []MonthLabel
	for i, w := range weeks {
		sunday := w[0].Date
		if sunday.Day() <= 7 && sunday.Year() == year {
			labels = append(labels, MonthLabel{
				Month:     sunday.Month().String()[:3],
				WeekIndex: i,
			})
		}
	}
	return labels
}

// Years returns the selectable years around center, oldest first.
func Years(center, span int) []int {
	years := make([]int, 0, 2*span+1)
	for y := center - span; y <= center+span; y++ {
		years = append(years, y)
	}
	return years
}
