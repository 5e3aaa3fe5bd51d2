package analytics

import (
	"time"

	"fintrack/internal/core"
)

// MonthlyTrend sums income and expense for each of the last TrendMonths
// calendar months, oldest first. Months without transactions are zero.
func MonthlyTrend(txs []core.Transaction, now time.Time) []core.MonthBucket {
	windows := LastMonths(now, TrendMonths)
	buckets := make([]core.MonthBucket, len(windows))
	for i, w := range windows {
		in := InMonth(w)
		income := Sum(txs, ByKind(core.Income), in)
		expense := Sum(txs, ByKind(core.Expense), in)
		buckets[i] = core.MonthBucket{
			Year:    w.Year,
			Month:   w.Month,
			Income:  income,
			Expense: expense,
			Balance: income.Sub(expense),
		}
	}
	return buckets
}
