package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestKindPartition(t *testing.T) {
	txs := []core.Transaction{
		income(500, day(2024, time.January, 1)),
		expense(100, day(2024, time.January, 5), "A"),
		expense(50, day(2024, time.January, 10), ""),
	}
	inc := Filter(txs, ByKind(core.Income))
	exp := Filter(txs, ByKind(core.Expense))
	if len(inc)+len(exp) != len(txs) {
		t.Fatalf("kind partition lost transactions: %d + %d != %d", len(inc), len(exp), len(txs))
	}
	if Sum(txs, ByKind(core.Expense)).Cents != 150 {
		t.Fatalf("unexpected expense sum")
	}
}

func TestByDateRangeInclusive(t *testing.T) {
	txs := []core.Transaction{
		expense(1, day(2024, time.January, 1), "A"),
		expense(2, day(2024, time.January, 15), "A"),
		expense(4, day(2024, time.January, 31), "A"),
		expense(8, day(2024, time.February, 1), "A"),
	}
	got := Sum(txs, ByDateRange(day(2024, time.January, 1), day(2024, time.January, 31)))
	if got.Cents != 7 {
		t.Fatalf("expected 7, got %d", got.Cents)
	}
	if n := Count(txs, OnOrAfter(day(2024, time.January, 15))); n != 3 {
		t.Fatalf("expected 3 on or after, got %d", n)
	}
}

func TestAndIntersects(t *testing.T) {
	txs := []core.Transaction{
		expense(100, day(2024, time.January, 5), "A"),
		expense(200, day(2024, time.January, 6), "B"),
		income(300, day(2024, time.January, 7)),
	}
	txs[0].Description = "Groceries at market"

	got := Filter(txs, ByKind(core.Expense), ByCategory("A"), MatchesDescription("GROCER"))
	if len(got) != 1 || got[0].Amount.Cents != 100 {
		t.Fatalf("unexpected filter result %+v", got)
	}
	if n := Count(txs); n != 3 {
		t.Fatalf("no predicates should match all, got %d", n)
	}
	if n := Count(txs, MatchesDescription("  ")); n != 3 {
		t.Fatalf("blank query should match all, got %d", n)
	}
	if n := Count(txs, ByCategory("")); n != 0 {
		t.Fatalf("empty category id should match nothing, got %d", n)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	txs := []core.Transaction{
		expense(100, day(2024, time.January, 5), "A"),
		income(300, day(2024, time.January, 7)),
	}
	before := txs[0]
	out := Filter(txs, ByKind(core.Income))
	out[0].Amount = core.Money{Cents: 1}
	if txs[0] != before || txs[1].Amount.Cents != 300 {
		t.Fatal("input collection was modified")
	}
}
