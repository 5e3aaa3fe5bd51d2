package analytics

import (
	"math"
	"testing"
	"time"

	"fintrack/internal/core"
)

func day(y int, m time.Month, d int) core.Date {
	return core.NewDate(y, m, d)
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

func expense(cents int64, d core.Date, category string) core.Transaction {
	return core.Transaction{
		ID:          "t-" + d.String(),
		UserID:      "u1",
		CategoryID:  core.Ref(category),
		Kind:        core.Expense,
		Amount:      core.Money{Cents: cents},
		Date:        d,
		Description: "expense",
	}
}

func income(cents int64, d core.Date) core.Transaction {
	return core.Transaction{
		ID:          "t-" + d.String(),
		UserID:      "u1",
		Kind:        core.Income,
		Amount:      core.Money{Cents: cents},
		Date:        d,
		Description: "income",
	}
}

func category(id, color string) core.Category {
	return core.Category{ID: id, UserID: "u1", Name: "cat " + id, Color: color}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
