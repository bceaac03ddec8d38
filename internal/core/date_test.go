package core

import "testing"

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		start  Date
		months int
		want   Date
	}{
		{NewDate(2024, 1, 15), 1, NewDate(2024, 2, 15)},
		{NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)}, // leap year
		{NewDate(2023, 1, 31), 1, NewDate(2023, 2, 28)},
		{NewDate(2024, 1, 31), 2, NewDate(2024, 3, 31)}, // clamp is per step, not sticky
		{NewDate(2024, 10, 31), 1, NewDate(2024, 11, 30)},
		{NewDate(2024, 11, 30), 2, NewDate(2025, 1, 30)},
		{NewDate(2024, 12, 15), 1, NewDate(2025, 1, 15)}, // year rollover
		{NewDate(2024, 3, 10), 0, NewDate(2024, 3, 10)},
	}
	for i, tc := range cases {
		got := tc.start.AddMonths(tc.months)
		if !got.Equal(tc.want.Time) {
			t.Fatalf("case %d: %s + %d months = %s, want %s", i, tc.start, tc.months, got, tc.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	if got := MonthStart(2024, 2); !got.Equal(NewDate(2024, 2, 1).Time) {
		t.Fatalf("month start = %s", got)
	}
	if got := MonthEnd(2024, 2); !got.Equal(NewDate(2024, 2, 29).Time) {
		t.Fatalf("month end = %s", got)
	}
	if got := MonthEnd(2024, 12); !got.Equal(NewDate(2024, 12, 31).Time) {
		t.Fatalf("december end = %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 31 {
		t.Fatalf("unexpected parse result: %s", d)
	}
	if _, err := ParseDate("31/01/2024"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
