package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestMonthlyTrendBuckets(t *testing.T) {
	now := at(2024, time.March, 15)
	txs := []core.Transaction{
		income(100000, day(2024, time.March, 1)),
		expense(25000, day(2024, time.March, 31), "A"),
		expense(1000, day(2024, time.February, 29), "A"),
		income(5000, day(2023, time.October, 1)),
		// outside the window on both sides
		expense(999, day(2023, time.September, 30), "A"),
		expense(999, day(2024, time.April, 1), "A"),
	}

	buckets := MonthlyTrend(txs, now)
	if len(buckets) != TrendMonths {
		t.Fatalf("expected %d buckets, got %d", TrendMonths, len(buckets))
	}
	if buckets[0].Month != time.October || buckets[0].Year != 2023 {
		t.Fatalf("first bucket = %d-%02d", buckets[0].Year, buckets[0].Month)
	}

	oct, feb, mar := buckets[0], buckets[4], buckets[5]
	if oct.Income.Cents != 5000 || oct.Expense.Cents != 0 || oct.Balance.Cents != 5000 {
		t.Errorf("october bucket = %+v", oct)
	}
	if feb.Expense.Cents != 1000 || feb.Balance.Cents != -1000 {
		t.Errorf("february bucket = %+v", feb)
	}
	if mar.Income.Cents != 100000 || mar.Expense.Cents != 25000 || mar.Balance.Cents != 75000 {
		t.Errorf("march bucket = %+v", mar)
	}
	for _, b := range buckets[1:4] {
		if !b.Income.IsZero() || !b.Expense.IsZero() {
			t.Errorf("expected empty bucket, got %+v", b)
		}
	}
}

func TestMonthlyTrendEmpty(t *testing.T) {
	buckets := MonthlyTrend(nil, at(2024, time.January, 1))
	if len(buckets) != TrendMonths {
		t.Fatalf("expected %d buckets, got %d", TrendMonths, len(buckets))
	}
	if buckets[0].Year != 2023 || buckets[0].Month != time.August {
		t.Fatalf("first bucket = %d-%02d", buckets[0].Year, buckets[0].Month)
	}
}
