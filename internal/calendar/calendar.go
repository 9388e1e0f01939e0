// Package calendar defines which dates count as working days and provides
// civil-date helpers shared by validation, recurrence and the cascade.
//
// All dates are represented as time.Time values at 00:00 UTC.
package calendar

import (
	"fmt"
	"iter"
	"time"
)

// Layout is the wire and storage format for plan dates.
const Layout = "2006-01-02"

// Policy reports whether a date is a working day.
type Policy interface {
	IsWorkingDay(d time.Time) bool
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(d time.Time) bool

func (f PolicyFunc) IsWorkingDay(d time.Time) bool { return f(d) }

// WeekendPolicy treats Saturday and Sunday as non-working. There is no
// holiday calendar.
type WeekendPolicy struct{}

func (WeekendPolicy) IsWorkingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// Default is the policy used when none is configured.
var Default Policy = WeekendPolicy{}

// Date returns the civil date y-m-d.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to its civil date, keeping t's calendar day in its own
// location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the current civil date in the local zone.
func Today(now time.Time) time.Time {
	return Day(now)
}

// AddDays shifts d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return Day(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (negative
// when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// MonthPeriod returns the first and last day of the month containing t.
func MonthPeriod(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	first := Date(y, m, 1)
	return first, first.AddDate(0, 1, -1)
}

// Days yields every calendar day in [start, end]. It yields nothing when
// end is before start.
func Days(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// Format renders d as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(Layout)
}
