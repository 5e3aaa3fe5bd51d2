package core

import (
	"slices"
	"time"
)

// MonthBucket holds the income and expense booked in one calendar month.
// Year and Month are ordinals; turning them into a label is up to the caller.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Income  Money
	Expense Money
	Balance Money // Income - Expense, may be negative
}

// PeriodValues are the sums of one comparison period.
type PeriodValues struct {
	Income  Money
	Expense Money
	Balance Money
}

// PeriodChange holds percentage deltas, current against previous.
type PeriodChange struct {
	Income  float64
	Expense float64
	Balance float64
}

// PeriodComparison compares the current month to date with the whole previous month.
type PeriodComparison struct {
	Current  PeriodValues
	Previous PeriodValues
	Change   PeriodChange
}

// CategorySlice is one category's share of categorized spending.
type CategorySlice struct {
	CategoryID string
	Name       string
	Amount     Money
	Percentage float64
	Color      string // declared category color
	ChartColor string // color after duplicate disambiguation
}

// Totals are lifetime sums over a transaction collection.
type Totals struct {
	Income      Money
	Expense     Money
	Balance     Money
	SavingsRate float64
}

// KindCounts counts transactions per kind.
type KindCounts struct {
	Income  int
	Expense int
}

// BudgetUsage compares a category's spending against its budget.
type BudgetUsage struct {
	CategoryID       string
	Name             string
	Color            string
	Budget           Money
	Spent            Money
	Remaining        Money // Budget - Spent, negative when over budget
	PercentUsed      float64
	OverBudget       bool
	TransactionCount int
}

// BudgetSummary aggregates every category's budget usage.
type BudgetSummary struct {
	TotalBudget            Money
	TotalSpent             Money
	Remaining              Money
	PercentUsed            float64
	CategoriesWithSpending int
}

// Report bundles every derived metric for one user at one instant.
type Report struct {
	GeneratedAt  time.Time
	Monthly      []MonthBucket
	Period       PeriodComparison
	Distribution []CategorySlice
	Totals       Totals
	DailyAverage float64
	TopCategory  *CategorySlice
	Budgets      []BudgetUsage
	BudgetTotals BudgetSummary
	Counts       KindCounts
	Recent       []Transaction
}

// Clone returns a deep copy of r, so callers can sort or edit it without
// touching a shared instance.
func (r Report) Clone() Report {
	out := r
	out.Monthly = slices.Clone(r.Monthly)
	out.Distribution = slices.Clone(r.Distribution)
	out.Budgets = slices.Clone(r.Budgets)
	if r.TopCategory != nil {
		top := *r.TopCategory
		out.TopCategory = &top
	}
	if r.Recent != nil {
		out.Recent = make([]Transaction, len(r.Recent))
		for i, t := range r.Recent {
			if t.CategoryID != nil {
				id := *t.CategoryID
				t.CategoryID = &id
			}
			out.Recent[i] = t
		}
	}
	return out
}
