// Package schedule provides calendar arithmetic for billing schedules:
// timezone-neutral calendar dates, monthly due-date stepping and reference
// period derivation.
package schedule

import (
	"fmt"
	"time"
)

// CalendarDate is a date with no time-of-day component. Keeping year, month
// and day explicit avoids drift across local/UTC boundaries when dates arrive
// as strings or timestamps.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Normalize strips the time-of-day component, reading the date in UTC.
func Normalize(t time.Time) CalendarDate {
	u := t.UTC()
	return CalendarDate{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// ParseDate parses a YYYY-MM-DD string into a CalendarDate.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Normalize(t), nil
}

// Time returns the date as a UTC time at midnight.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return d.Time().Format("2006-01-02")
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StepDueDate computes the due date of the k-th installment (1-based): the
// base date's month advanced by k-1, with the day of month set to dueDay.
// When dueDay exceeds the length of the target month the day is clamped to
// the month's last day; a due date never rolls into the following month.
// The returned reference month/year are derived from the due date itself.
func StepDueDate(base CalendarDate, k int, dueDay int) (due CalendarDate, refMonth int, refYear int) {
	// normalize the month offset through time.Date, day 1 so the month
	// arithmetic itself cannot overflow
	anchor := time.Date(base.Year, base.Month+time.Month(k-1), 1, 0, 0, 0, 0, time.UTC)

	day := dueDay
	if last := DaysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}

	due = CalendarDate{Year: anchor.Year(), Month: anchor.Month(), Day: day}
	return due, int(due.Month), due.Year
}

// MonthBounds returns the first and last instants of the given month, UTC.
func MonthBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
