package core

import (
	"errors"
	"time"
)

const (
	PeriodToday     Period = "today"
	PeriodThisMonth Period = "month"
	PeriodAllTime   Period = "all"
)

// Period is the time-window selector applied before aggregation.
type Period string

var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod maps a user-supplied selector to a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodThisMonth, PeriodAllTime:
		return Period(s), nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodThisMonth, PeriodAllTime:
		return true
	default:
		return false
	}
}

// Contains reports whether date falls inside the period's window around the
// reference instant now. Comparison happens on local calendar dates in now's
// location, not on timestamp equality: an expense at local midnight of the
// current day is today's, one at 23:59:59 of the previous day is not.
func (p Period) Contains(date, now time.Time) bool {
	d := date.In(now.Location())
	switch p {
	case PeriodToday:
		y1, m1, day1 := d.Date()
		y2, m2, day2 := now.Date()
		return y1 == y2 && m1 == m2 && day1 == day2
	case PeriodThisMonth:
		// First through last calendar day of the current month, inclusive.
		return d.Year() == now.Year() && d.Month() == now.Month()
	case PeriodAllTime:
		return true
	default:
		return false
	}
}
