// Package analytics turns transaction and category collections into derived
// metrics: monthly trend, period comparison, category distribution, totals,
// daily burn rate and budget usage.
//
// Every function here is pure. Inputs are never mutated, nothing is logged,
// and the same inputs with the same "now" always yield the same outputs.
// The package trusts its input contract (non-negative amounts, valid kinds);
// validation is done by the ledger before data is stored.
package analytics

import (
	"time"

	"fintrack/internal/core"
)

// TrendMonths is the number of calendar months in the trend.
const TrendMonths = 6

// MonthWindow is one calendar month. Start and End are inclusive days.
type MonthWindow struct {
	Year  int
	Month time.Month
	Start core.Date
	End   core.Date
}

// MonthOf returns the calendar month containing the day t shows in its location.
func MonthOf(t time.Time) MonthWindow {
	y, m, _ := t.Date()
	return monthWindow(y, m)
}

func monthWindow(year int, month time.Month) MonthWindow {
	start := core.NewDate(year, month, 1)
	// Day 0 of the next month normalizes to the last day of this one.
	end := core.NewDate(year, month+1, 0)
	return MonthWindow{
		Year:  start.Year(),
		Month: start.Month(),
		Start: start,
		End:   end,
	}
}

// Previous returns the calendar month before w, rolling over year boundaries.
func (w MonthWindow) Previous() MonthWindow {
	return monthWindow(w.Year, w.Month-1)
}

// Contains reports whether d falls inside w.
func (w MonthWindow) Contains(d core.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the number of days in the month.
func (w MonthWindow) Days() int {
	return w.End.Day()
}

// LastMonths returns n month windows ordered oldest to newest, the last one
// being the month containing now.
func LastMonths(now time.Time, n int) []MonthWindow {
	if n <= 0 {
		return nil
	}
	y, m, _ := now.Date()
	out := make([]MonthWindow, n)
	for i := 0; i < n; i++ {
		out[i] = monthWindow(y, m-time.Month(n-1-i))
	}
	return out
}
