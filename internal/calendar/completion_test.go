package calendar

import (
	"testing"
	"time"
)

func TestPercentageEmpty(t *testing.T) {
	if got := Percentage(nil, 2024); got != 0 {
		t.Fatalf("empty percentage = %d, want 0", got)
	}
	if got := Percentage(NewDateSet(), 2024); got != 0 {
		t.Fatalf("empty percentage = %d, want 0", got)
	}
}

func TestPercentageScenario(t *testing.T) {
	dates := NewDateSet("2024-01-01", "2024-06-15")
	if got := Percentage(dates, 2024); got != 1 {
		t.Fatalf("percentage = %d, want 1", got)
	}
}

func TestPercentageIgnoresOtherYears(t *testing.T) {
	dates := NewDateSet("2023-12-31", "2025-01-01", "not-a-date", "2024-1-01")
	if got := CompletedInYear(dates, 2024); got != 0 {
		t.Fatalf("completed = %d, want 0", got)
	}
}

func TestPercentageFullYear(t *testing.T) {
	dates := NewDateSet()
	for d := Date(2023, time.January, 1); d.Year() == 2023; d = d.AddDate(0, 0, 1) {
		dates.Add(DateString(d))
	}
	if got := Percentage(dates, 2023); got != 100 {
		t.Fatalf("full year = %d, want 100", got)
	}
}

func TestPercentageMonotonicAndBounded(t *testing.T) {
	dates := NewDateSet()
	prev := Percentage(dates, 2024)
	for d := Date(2024, time.January, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		dates.Add(DateString(d))
		got := Percentage(dates, 2024)
		if got < prev {
			t.Fatalf("percentage dropped from %d to %d at %s", prev, got, DateString(d))
		}
		if got < 0 || got > 100 {
			t.Fatalf("percentage %d out of bounds", got)
		}
		prev = got
	}
}

func TestPercentageRounding(t *testing.T) {
	// 2/365 is 0.55% and rounds up; 1/365 rounds down.
	dates := NewDateSet("2023-03-01", "2023-03-02")
	if got := Percentage(dates, 2023); got != 1 {
		t.Fatalf("percentage = %d, want 1", got)
	}
	one := NewDateSet("2023-03-01")
	if got := Percentage(one, 2023); got != 0 {
		t.Fatalf("percentage = %d, want 0", got)
	}
}

func TestMonthlyCounts(t *testing.T) {
	dates := NewDateSet("2024-01-01", "2024-01-31", "2024-02-29", "2024-12-31", "2023-01-01")
	counts := MonthlyCounts(dates, 2024)
	if counts[0] != 2 || counts[1] != 1 || counts[11] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
}

func TestDateSetOps(t *testing.T) {
	s := NewDateSet("2024-05-02", "2024-05-01")
	if !s.Has("2024-05-01") {
		t.Fatal("expected member")
	}
	c := s.Clone()
	c.Remove("2024-05-01")
	if !s.Has("2024-05-01") {
		t.Fatal("clone should not share storage")
	}
	sorted := s.Sorted()
	if sorted[0] != "2024-05-01" || sorted[1] != "2024-05-02" {
		t.Fatalf("sorted = %v", sorted)
	}
	var nilSet DateSet
	if nilSet.Has("2024-05-01") {
		t.Fatal("nil set should be empty")
	}
	if len(nilSet.Clone()) != 0 {
		t.Fatal("nil clone should be empty")
	}
}

// ============================================================
// Streaks
// ============================================================

func TestStreaks(t *testing.T) {
	today := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dates   []string
		current int
		longest int
	}{
		{"empty", nil, 0, 0},
		{"today only", []string{"2024-03-10"}, 1, 1},
		{"ending yesterday", []string{"2024-03-08", "2024-03-09"}, 2, 2},
		{"broken", []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-08"}, 0, 3},
		{"across month", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 0, 3},
		{"current longest", []string{"2024-03-05", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"}, 4, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cur, long := Streaks(NewDateSet(tc.dates...), today)
			if cur != tc.current || long != tc.longest {
				t.Fatalf("Streaks = (%d, %d), want (%d, %d)", cur, long, tc.current, tc.longest)
			}
		})
	}
}
