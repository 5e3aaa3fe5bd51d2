package analytics

import (
	"time"

	"fintrack/internal/core"
)

// ComputeTotals returns lifetime income, expense, balance and savings rate.
func ComputeTotals(txs []core.Transaction) core.Totals {
	income := Sum(txs, ByKind(core.Income))
	expense := Sum(txs, ByKind(core.Expense))
	balance := income.Sub(expense)

	totals := core.Totals{
		Income:  income,
		Expense: expense,
		Balance: balance,
	}
	if income.Cents > 0 {
		totals.SavingsRate = float64(balance.Cents) / float64(income.Cents) * 100
	}
	return totals
}

// DailyAverage is current-month expense divided by the day of month of now,
// counting today as elapsed. The result is in currency units.
func DailyAverage(txs []core.Transaction, now time.Time) float64 {
	elapsed := now.Day()
	if elapsed <= 0 {
		return 0
	}
	spent := Sum(txs, ByKind(core.Expense), OnOrAfter(MonthOf(now).Start))
	return spent.Float64() / float64(elapsed)
}

// CountByKind counts income and expense transactions.
func CountByKind(txs []core.Transaction) core.KindCounts {
	var counts core.KindCounts
	for _, t := range txs {
		switch t.Kind {
		case core.Income:
			counts.Income++
		case core.Expense:
			counts.Expense++
		}
	}
	return counts
}
