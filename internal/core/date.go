package core

import (
	"errors"
	"time"
)

// Date is a calendar date at day granularity; time-of-day is irrelevant
// and always normalized to midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// AddMonths steps the date forward by n calendar months, clamping to the
// last valid day of the target month. Jan 31 + 1 month is Feb 28 (or 29 in
// a leap year), never a rollover into March. The clamp is relative to the
// receiver's day, so Jan 31 + 2 months is Mar 31.
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Time.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// MonthStart returns the first day of the given month.
func MonthStart(year, month int) Date {
	return NewDate(year, month, 1)
}

// MonthEnd returns the last day of the given month.
func MonthEnd(year, month int) Date {
	// Day zero of the next month normalizes to the last day of this one.
	return Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
}
