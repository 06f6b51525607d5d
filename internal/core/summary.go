package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayFormat is the calendar-date key used for daily totals. Keys in this form
// sort lexicographically in chronological order.
const DayFormat = "2006-01-02"

// Summary holds the aggregates derived from one filtered expense set.
// Categories and days without expenses in the window are absent from the
// maps, not zero-filled.
type Summary struct {
	Period     Period
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	ByDay      map[string]decimal.Decimal
}

// Summarize filters expenses through the period window around the reference
// instant now and computes the total, per-category and per-day sums in a
// single pass. Input records are never mutated. An empty input yields a zero
// total and empty maps.
func Summarize(expenses []Expense, period Period, now time.Time) Summary {
	s := Summary{
		Period:     period,
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
		ByDay:      make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		if !period.Contains(e.Date, now) {
			continue
		}
		s.Total = s.Total.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
		day := e.Date.In(now.Location()).Format(DayFormat)
		s.ByDay[day] = s.ByDay[day].Add(e.Amount)
	}
	return s
}
