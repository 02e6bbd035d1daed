package datewindow

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(ISO, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHalfOpen(t *testing.T) {
	r, err := HalfOpen("2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("HalfOpen: %v", err)
	}
	if r.Start != "2025-06-01" || r.End != "2025-06-30" || r.EndExclusive != "2025-07-01" {
		t.Fatalf("unexpected range %+v", r)
	}

	// single-day windows are valid
	r, err = HalfOpen("2025-06-15", "2025-06-15")
	if err != nil {
		t.Fatalf("single day: %v", err)
	}
	if r.EndExclusive != "2025-06-16" {
		t.Fatalf("EndExclusive = %q", r.EndExclusive)
	}
}

func TestHalfOpenRejects(t *testing.T) {
	cases := []struct{ start, end string }{
		{"2025-06-30", "2025-06-01"}, // inverted
		{"garbage", "2025-06-01"},
		{"2025-06-01", "garbage"},
		{"01/06/2025", "2025-06-30"}, // wrong format
	}
	for _, tc := range cases {
		if _, err := HalfOpen(tc.start, tc.end); err == nil {
			t.Fatalf("HalfOpen(%q, %q) accepted", tc.start, tc.end)
		}
	}
}

func TestAddMonthsClamps(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"}, // leap year
		{"2025-03-31", -1, "2025-02-28"},
		{"2025-01-15", 12, "2026-01-15"},
		{"2025-01-15", -13, "2023-12-15"},
		{"2025-08-31", 1, "2025-09-30"},
		{"2025-08-15", 0, "2025-08-15"},
	}
	for _, tc := range cases {
		got := AddMonths(date(tc.in), tc.n)
		if got.Format(ISO) != tc.want {
			t.Fatalf("AddMonths(%s, %d) = %s, want %s", tc.in, tc.n, got.Format(ISO), tc.want)
		}
	}
}

func TestTrailingStart(t *testing.T) {
	cases := []struct {
		end      string
		months   int
		startDay int
		want     string
	}{
		// 6-month trailing window ending in Aug keeps the caller's start day
		{"2025-08-20", 6, 1, "2025-03-01"},
		{"2025-08-20", 6, 15, "2025-03-15"},
		// start day clamps to the first month's length
		{"2025-04-30", 3, 31, "2025-02-28"},
		// a 1-month window starts in the end month itself
		{"2025-08-20", 1, 5, "2025-08-05"},
		// crossing a year boundary
		{"2025-02-10", 6, 1, "2024-09-01"},
	}
	for _, tc := range cases {
		got := TrailingStart(date(tc.end), tc.months, tc.startDay)
		if got.Format(ISO) != tc.want {
			t.Fatalf("TrailingStart(%s, %d, %d) = %s, want %s",
				tc.end, tc.months, tc.startDay, got.Format(ISO), tc.want)
		}
	}
}

func TestMonthAnchorAndLabel(t *testing.T) {
	a := MonthAnchor(date("2025-09-17"))
	if a.Format(ISO) != "2025-09-01" {
		t.Fatalf("MonthAnchor = %s", a.Format(ISO))
	}
	if got := MonthLabel(a); got != "Sep 25" {
		t.Fatalf("MonthLabel = %q", got)
	}
}

func TestSameCalendarMonth(t *testing.T) {
	if !SameCalendarMonth(date("2025-06-01"), date("2025-06-30")) {
		t.Fatal("same month not detected")
	}
	if SameCalendarMonth(date("2025-06-30"), date("2025-07-01")) {
		t.Fatal("different months detected as same")
	}
	if SameCalendarMonth(date("2024-06-15"), date("2025-06-15")) {
		t.Fatal("same month across years detected as same")
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(2024, time.February); got != 29 {
		t.Fatalf("DaysIn leap feb = %d", got)
	}
	if got := DaysIn(2025, time.February); got != 28 {
		t.Fatalf("DaysIn feb = %d", got)
	}
	if got := DaysIn(2025, time.December); got != 31 {
		t.Fatalf("DaysIn dec = %d", got)
	}
}
