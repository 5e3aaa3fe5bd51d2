package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

// RecentTransactions returns up to n transactions, newest date first. Same-day
// transactions are ordered by creation time, newest first, then input order.
func RecentTransactions(txs []core.Transaction, n int) []core.Transaction {
	if n <= 0 {
		return nil
	}
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Compute derives every metric from one snapshot of the source collections.
func Compute(txs []core.Transaction, categories []core.Category, now time.Time) core.Report {
	distribution := CategoryDistribution(txs, categories)
	budgets := BudgetUsage(txs, categories)
	return core.Report{
		GeneratedAt:  now,
		Monthly:      MonthlyTrend(txs, now),
		Period:       ComparePeriods(txs, now),
		Distribution: distribution,
		Totals:       ComputeTotals(txs),
		DailyAverage: DailyAverage(txs, now),
		TopCategory:  TopCategory(distribution),
		Budgets:      budgets,
		BudgetTotals: SummarizeBudgets(budgets),
		Counts:       CountByKind(txs),
		Recent:       RecentTransactions(txs, RecentLimit),
	}
}
