package analytics

import "fintrack/internal/core"

// BudgetUsage reports spending against budget for every category, in input
// order. Spending covers every expense in txs for the category; callers pick
// the period by choosing which transactions to pass.
func BudgetUsage(txs []core.Transaction, categories []core.Category) []core.BudgetUsage {
	spent := spendingByCategory(txs)
	counts := make(map[string]int)
	for _, t := range txs {
		if t.CategoryID != nil {
			counts[*t.CategoryID]++
		}
	}

	out := make([]core.BudgetUsage, 0, len(categories))
	for _, c := range categories {
		s := spent[c.ID]
		u := core.BudgetUsage{
			CategoryID:       c.ID,
			Name:             c.Name,
			Color:            c.Color,
			Budget:           c.Budget,
			Spent:            s,
			Remaining:        c.Budget.Sub(s),
			OverBudget:       c.Budget.Cents > 0 && s.Cents > c.Budget.Cents,
			TransactionCount: counts[c.ID],
		}
		if c.Budget.Cents > 0 {
			u.PercentUsed = float64(s.Cents) / float64(c.Budget.Cents) * 100
		}
		out = append(out, u)
	}
	return out
}

// SummarizeBudgets totals budget usage across categories.
func SummarizeBudgets(usages []core.BudgetUsage) core.BudgetSummary {
	var sum core.BudgetSummary
	for _, u := range usages {
		sum.TotalBudget = sum.TotalBudget.Add(u.Budget)
		sum.TotalSpent = sum.TotalSpent.Add(u.Spent)
		if u.Spent.Cents > 0 {
			sum.CategoriesWithSpending++
		}
	}
	sum.Remaining = sum.TotalBudget.Sub(sum.TotalSpent)
	if sum.TotalBudget.Cents > 0 {
		sum.PercentUsed = float64(sum.TotalSpent.Cents) / float64(sum.TotalBudget.Cents) * 100
	}
	return sum
}
