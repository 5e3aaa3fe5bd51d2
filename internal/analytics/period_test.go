package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestComparePeriods(t *testing.T) {
	now := at(2024, time.March, 10)
	txs := []core.Transaction{
		income(15000, day(2024, time.March, 2)),
		expense(5000, day(2024, time.March, 3), "A"),
		// forward-dated transactions count toward the current period
		expense(2500, day(2024, time.April, 20), "A"),
		income(10000, day(2024, time.February, 1)),
		expense(6000, day(2024, time.February, 29), "A"),
		// older than the previous month
		income(99900, day(2024, time.January, 31)),
	}

	got := ComparePeriods(txs, now)
	if got.Current.Income.Cents != 15000 || got.Current.Expense.Cents != 7500 || got.Current.Balance.Cents != 7500 {
		t.Errorf("current = %+v", got.Current)
	}
	if got.Previous.Income.Cents != 10000 || got.Previous.Expense.Cents != 6000 || got.Previous.Balance.Cents != 4000 {
		t.Errorf("previous = %+v", got.Previous)
	}
	approx(t, "income change", got.Change.Income, 50)
	approx(t, "expense change", got.Change.Expense, 25)
	approx(t, "balance change", got.Change.Balance, 87.5)
}

func TestComparePeriodsNoPrevious(t *testing.T) {
	txs := []core.Transaction{income(10000, day(2024, time.March, 2))}
	got := ComparePeriods(txs, at(2024, time.March, 10))
	if got.Change != (core.PeriodChange{}) {
		t.Fatalf("expected zero change without a previous period, got %+v", got.Change)
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name       string
		curr, prev int64
		want       float64
	}{
		{"growth", 15000, 10000, 50},
		{"drop", 5000, 10000, -50},
		{"flat", 10000, 10000, 0},
		{"zero previous", 5000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx(t, "PercentChange", PercentChange(core.Money{Cents: tc.curr}, core.Money{Cents: tc.prev}), tc.want)
		})
	}
}

func TestBalanceChange(t *testing.T) {
	cases := []struct {
		name       string
		curr, prev int64
		want       float64
	}{
		{"negative previous", 5000, -10000, 150},
		{"worse than negative previous", -20000, -10000, -100},
		{"positive previous", 5000, 10000, -50},
		{"zero previous", 5000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx(t, "BalanceChange", BalanceChange(core.Money{Cents: tc.curr}, core.Money{Cents: tc.prev}), tc.want)
		})
	}
}
