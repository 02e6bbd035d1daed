// Package datewindow implements the date arithmetic the reporting layer
// leans on: half-open ranges, clamped month shifts and trailing windows
package datewindow

import (
	"time"

	perr "petmis/internal/platform/errors"
)

// ISO is the wire format for all report dates
const ISO = "2006-01-02"

// Range is a validated reporting window. EndExclusive is End plus one day so
// timestamp columns can be compared with >= Start AND < EndExclusive.
type Range struct {
	Start        string
	EndExclusive string
	End          string
}

// StartDate returns Start as a date
func (r Range) StartDate() time.Time { t, _ := time.Parse(ISO, r.Start); return t }

// EndDate returns End as a date
func (r Range) EndDate() time.Time { t, _ := time.Parse(ISO, r.End); return t }

// HalfOpen parses and validates a start/end pair
func HalfOpen(start, end string) (Range, error) {
	sd, err := time.Parse(ISO, start)
	if err != nil {
		return Range{}, perr.DateParsef("invalid start date %q", start)
	}
	ed, err := time.Parse(ISO, end)
	if err != nil {
		return Range{}, perr.DateParsef("invalid end date %q", end)
	}
	if ed.Before(sd) {
		return Range{}, perr.InvalidRangef("end date %s before start date %s", end, start)
	}
	return Range{
		Start:        sd.Format(ISO),
		EndExclusive: ed.AddDate(0, 0, 1).Format(ISO),
		End:          ed.Format(ISO),
	}, nil
}

// FromDates builds a Range from already-parsed dates; end must not precede start
func FromDates(sd, ed time.Time) (Range, error) {
	return HalfOpen(sd.Format(ISO), ed.Format(ISO))
}

// DaysIn returns the number of days in year/month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths shifts d by n calendar months, clamping the day to the target
// month's last valid day (Jan 31 +1 month is Feb 28/29, not Mar 2/3)
func AddMonths(d time.Time, n int) time.Time {
	total := d.Year()*12 + int(d.Month()) - 1 + n
	y := total / 12
	m := time.Month(total%12 + 1)
	day := d.Day()
	if last := DaysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// MonthAnchor returns the first day of d's month
func MonthAnchor(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SameCalendarMonth reports whether a and b fall in the same year and month
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// TrailingStart computes the start date of an n-month trailing window ending
// in end's month, keeping startDay where the first month allows it
func TrailingStart(end time.Time, months, startDay int) time.Time {
	total := end.Year()*12 + int(end.Month()) - 1 - (months - 1)
	y := total / 12
	m := time.Month(total%12 + 1)
	day := startDay
	if last := DaysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// MonthLabel renders the short chart label, e.g. "Sep 25"
func MonthLabel(d time.Time) string { return d.Format("Jan 06") }

// Default window helpers used by handlers when no dates are supplied

// Today returns the current date as ISO
func Today() string { return time.Now().Format(ISO) }

// DaysAgo returns the date n days before today as ISO
func DaysAgo(n int) string { return time.Now().AddDate(0, 0, -n).Format(ISO) }

// FirstDayOfCurrentMonth returns the month anchor of today as ISO
func FirstDayOfCurrentMonth() string {
	return MonthAnchor(time.Now()).Format(ISO)
}

// FirstDayOfPreviousMonth returns the anchor of last month as ISO
func FirstDayOfPreviousMonth() string {
	return AddMonths(MonthAnchor(time.Now()), -1).Format(ISO)
}

// FirstDayOfPreviousYear returns Jan 1 of last year as ISO
func FirstDayOfPreviousYear() string {
	now := time.Now()
	return time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC).Format(ISO)
}
