package analytics

import (
	"time"

	"fintrack/internal/core"
)

// ComparePeriods compares the current month with the previous one.
//
// "Current" is every transaction dated on or after the first of the current
// month with no upper bound, so forward-dated transactions are included.
// "Previous" is the whole previous calendar month.
func ComparePeriods(txs []core.Transaction, now time.Time) core.PeriodComparison {
	month := MonthOf(now)
	prev := month.Previous()

	current := periodValues(txs, OnOrAfter(month.Start))
	previous := periodValues(txs, InMonth(prev))

	return core.PeriodComparison{
		Current:  current,
		Previous: previous,
		Change: core.PeriodChange{
			Income:  PercentChange(current.Income, previous.Income),
			Expense: PercentChange(current.Expense, previous.Expense),
			Balance: BalanceChange(current.Balance, previous.Balance),
		},
	}
}

func periodValues(txs []core.Transaction, in Predicate) core.PeriodValues {
	income := Sum(txs, ByKind(core.Income), in)
	expense := Sum(txs, ByKind(core.Expense), in)
	return core.PeriodValues{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// PercentChange is (curr-prev)/prev*100 for non-negative sums, 0 unless prev > 0.
func PercentChange(curr, prev core.Money) float64 {
	if prev.Cents > 0 {
		return float64(curr.Cents-prev.Cents) / float64(prev.Cents) * 100
	}
	return 0
}

// BalanceChange divides by |prev| since a balance can be negative, and is 0 when prev == 0.
func BalanceChange(curr, prev core.Money) float64 {
	if prev.Cents != 0 {
		denom := prev.Cents
		if denom < 0 {
			denom = -denom
		}
		return float64(curr.Cents-prev.Cents) / float64(denom) * 100
	}
	return 0
}
