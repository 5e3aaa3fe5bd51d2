package analytics

import (
	"sort"

	"fintrack/internal/core"
)

// CategoryDistribution ranks categories by expense, largest first.
//
// Categories with no spending are dropped and uncategorized expenses are
// ignored. Percentages are shares of the retained total, so they sum to 100
// when anything is retained. Ties keep category input order. ChartColor is
// assigned over the ranked order, so any prefix of the result is colored
// exactly as it would be on its own.
func CategoryDistribution(txs []core.Transaction, categories []core.Category) []core.CategorySlice {
	spent := spendingByCategory(txs)

	slices := make([]core.CategorySlice, 0, len(categories))
	for _, c := range categories {
		amount := spent[c.ID]
		if amount.Cents <= 0 {
			continue
		}
		slices = append(slices, core.CategorySlice{
			CategoryID: c.ID,
			Name:       c.Name,
			Amount:     amount,
			Color:      c.Color,
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount.Cents > slices[j].Amount.Cents
	})

	var total core.Money
	for _, s := range slices {
		total = total.Add(s.Amount)
	}

	colors := make([]string, len(slices))
	for i, s := range slices {
		colors[i] = s.Color
	}
	chart := ChartColors(colors)

	for i := range slices {
		if total.Cents > 0 {
			slices[i].Percentage = float64(slices[i].Amount.Cents) / float64(total.Cents) * 100
		}
		slices[i].ChartColor = chart[i]
	}
	return slices
}

// spendingByCategory sums expense amounts per category id in one pass.
func spendingByCategory(txs []core.Transaction) map[string]core.Money {
	spent := make(map[string]core.Money)
	for _, t := range txs {
		if t.Kind != core.Expense || t.CategoryID == nil {
			continue
		}
		spent[*t.CategoryID] = spent[*t.CategoryID].Add(t.Amount)
	}
	return spent
}

// TopCategory returns the highest-spending slice, or nil when there is none.
func TopCategory(distribution []core.CategorySlice) *core.CategorySlice {
	if len(distribution) == 0 {
		return nil
	}
	top := distribution[0]
	return &top
}
