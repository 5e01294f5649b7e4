package calendar

import (
	"math"
	"sort"
	"time"
)

// DateSet is a set of canonical date strings.
type DateSet map[string]struct{}

func NewDateSet(dates ...string) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DateSet) Add(date string)    { s[date] = struct{}{} }
func (s DateSet) Remove(date string) { delete(s, date) }

// Clone returns an independent copy; a nil set clones to an empty one.
func (s DateSet) Clone() DateSet {
	c := make(DateSet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

// Sorted returns the members in ascending date order.
func (s DateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// CompletedInYear counts the canonical dates of year present in dates.
func CompletedInYear(dates DateSet, year int) int {
	n := 0
	for d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			continue
		}
		if t.Year() == year {
			n++
		}
	}
	return n
}

// Percentage is the share of year's days completed, rounded to a whole percent.
func Percentage(dates DateSet, year int) int {
	done := CompletedInYear(dates, year)
	return int(math.Round(100 * float64(done) / float64(DaysInYear(year))))
}

// MonthlyCounts returns completed days per month of year, January first.
func MonthlyCounts(dates DateSet, year int) [12]int {
	var counts [12]int
	for d := range dates {
		t, err := ParseDate(d)
		if err != nil || t.Year() != year {
			continue
		}
		counts[t.Month()-1]++
	}
	return counts
}

// Streaks returns the run of consecutive completed days ending today (or
// yesterday, when today is still open) and the longest run overall.
func Streaks(dates DateSet, today time.Time) (current, longest int) {
	var days []time.Time
	for d := range dates {
		if t, err := ParseDate(d); err == nil {
			days = append(days, t)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 0
	for i, d := range days {
		if i > 0 && d.Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	day := Today(today)
	if !dates.Has(DateString(day)) {
		day = day.AddDate(0, 0, -1)
	}
	for dates.Has(DateString(day)) {
		current++
		day = day.AddDate(0, 0, -1)
	}
	return current, longest
}
