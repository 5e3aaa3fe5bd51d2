// Package sheets lays out reports for spreadsheet export.
package sheets

import (
	"context"
	"fmt"
	"math"
	"strings"

	"fintrack/internal/core"
)

// Exporter writes a user's report somewhere a human can read it.
type Exporter interface {
	ExportReport(ctx context.Context, userID string, report core.Report) error
}

// Block is a rectangle of values anchored at a cell of a sheet, in A1 notation.
type Block struct {
	Range  string
	Values [][]any
}

// SheetName is the per-user sheet title.
func SheetName(prefix, userID string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return userID
	}
	return prefix + " " + userID
}

// ClearRange covers every column ReportBlocks can write, with no row bound.
func ClearRange(sheet string) string {
	return quote(sheet) + "!" + firstColumn + ":" + lastColumn
}

// ReportBlocks never writes outside columns firstColumn to lastColumn.
const (
	firstColumn = "A"
	lastColumn  = "M"
)

// ReportBlocks lays a report out as totals at A1 with the monthly trend one
// row below, and category distribution at G1 with budget usage one row below.
func ReportBlocks(sheet string, r core.Report) []Block {
	q := quote(sheet)

	totals := [][]any{
		{"Generated", r.GeneratedAt.UTC().Format("2006-01-02 15:04")},
		{"Income", r.Totals.Income.Float64()},
		{"Expense", r.Totals.Expense.Float64()},
		{"Balance", r.Totals.Balance.Float64()},
		{"Savings rate %", round2(r.Totals.SavingsRate)},
		{"Daily average", round2(r.DailyAverage)},
		{"Top category", topName(r.TopCategory)},
	}

	trend := [][]any{{"Month", "Income", "Expense", "Balance"}}
	for _, b := range r.Monthly {
		trend = append(trend, []any{
			fmt.Sprintf("%04d-%02d", b.Year, int(b.Month)),
			b.Income.Float64(),
			b.Expense.Float64(),
			b.Balance.Float64(),
		})
	}

	dist := [][]any{{"Category", "Amount", "Share %", "Color"}}
	for _, s := range r.Distribution {
		dist = append(dist, []any{s.Name, s.Amount.Float64(), round2(s.Percentage), s.ChartColor})
	}

	budgets := [][]any{{"Category", "Budget", "Spent", "Remaining", "Used %", "Over"}}
	for _, u := range r.Budgets {
		budgets = append(budgets, []any{
			u.Name,
			u.Budget.Float64(),
			u.Spent.Float64(),
			u.Remaining.Float64(),
			round2(u.PercentUsed),
			u.OverBudget,
		})
	}

	trendRow := len(totals) + 2
	budgetRow := len(dist) + 2
	return []Block{
		{Range: q + "!A1", Values: totals},
		{Range: fmt.Sprintf("%s!A%d", q, trendRow), Values: trend},
		{Range: q + "!G1", Values: dist},
		{Range: fmt.Sprintf("%s!G%d", q, budgetRow), Values: budgets},
	}
}

func topName(s *core.CategorySlice) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// quote wraps a sheet title for A1 notation, doubling embedded quotes.
func quote(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
