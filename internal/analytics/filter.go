package analytics

import (
	"strings"

	"fintrack/internal/core"
)

// Predicate selects transactions. Predicates compare calendar days only.
type Predicate func(core.Transaction) bool

func ByKind(k core.Kind) Predicate {
	return func(t core.Transaction) bool { return t.Kind == k }
}

// ByDateRange matches transactions dated from start through end, both inclusive.
func ByDateRange(start, end core.Date) Predicate {
	return func(t core.Transaction) bool {
		return !t.Date.Before(start) && !t.Date.After(end)
	}
}

// InMonth matches transactions dated inside w.
func InMonth(w MonthWindow) Predicate {
	return ByDateRange(w.Start, w.End)
}

// OnOrAfter matches transactions dated start or later, with no upper bound.
func OnOrAfter(start core.Date) Predicate {
	return func(t core.Transaction) bool { return !t.Date.Before(start) }
}

func ByCategory(id string) Predicate {
	return func(t core.Transaction) bool { return t.HasCategory(id) }
}

// MatchesDescription is a case-insensitive substring match. An empty query matches all.
func MatchesDescription(query string) Predicate {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(t core.Transaction) bool {
		return q == "" || strings.Contains(strings.ToLower(t.Description), q)
	}
}

// And intersects predicates. With no predicates it matches everything.
func And(preds ...Predicate) Predicate {
	return func(t core.Transaction) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Filter returns the transactions matching every predicate, in input order.
func Filter(txs []core.Transaction, preds ...Predicate) []core.Transaction {
	match := And(preds...)
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sum adds the amounts of the transactions matching every predicate.
func Sum(txs []core.Transaction, preds ...Predicate) core.Money {
	match := And(preds...)
	var total core.Money
	for _, t := range txs {
		if match(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Count returns how many transactions match every predicate.
func Count(txs []core.Transaction, preds ...Predicate) int {
	match := And(preds...)
	n := 0
	for _, t := range txs {
		if match(t) {
			n++
		}
	}
	return n
}
