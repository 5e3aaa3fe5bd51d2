package sheets

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func sampleReport() core.Report {
	return core.Report{
		GeneratedAt: time.Date(2024, time.March, 15, 9, 5, 0, 0, time.UTC),
		Monthly: []core.MonthBucket{
			{Year: 2023, Month: time.December, Income: core.Money{Cents: 10000}},
			{Year: 2024, Month: time.March, Expense: core.Money{Cents: 2550}, Balance: core.Money{Cents: -2550}},
		},
		Distribution: []core.CategorySlice{
			{Name: "Food", Amount: core.Money{Cents: 2000}, Percentage: 66.666666, ChartColor: "#FF0000"},
			{Name: "Fun", Amount: core.Money{Cents: 1000}, Percentage: 33.333333, ChartColor: "#d90000"},
		},
		Totals:       core.Totals{Income: core.Money{Cents: 50000}, Expense: core.Money{Cents: 15000}, Balance: core.Money{Cents: 35000}, SavingsRate: 70},
		DailyAverage: 20,
		Budgets: []core.BudgetUsage{
			{Name: "Food", Budget: core.Money{Cents: 1000}, Spent: core.Money{Cents: 2000}, Remaining: core.Money{Cents: -1000}, PercentUsed: 200, OverBudget: true},
		},
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("Report", "u1"); got != "Report u1" {
		t.Errorf("SheetName = %q", got)
	}
	if got := SheetName("  ", "u1"); got != "u1" {
		t.Errorf("SheetName without prefix = %q", got)
	}
}

func TestReportBlocksLayout(t *testing.T) {
	r := sampleReport()
	r.TopCategory = &r.Distribution[0]
	blocks := ReportBlocks("Report u1", r)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}

	wantRanges := []string{"'Report u1'!A1", "'Report u1'!A9", "'Report u1'!G1", "'Report u1'!G5"}
	for i, want := range wantRanges {
		if blocks[i].Range != want {
			t.Errorf("block %d range = %s, want %s", i, blocks[i].Range, want)
		}
	}

	totals := blocks[0].Values
	if totals[0][1] != "2024-03-15 09:05" || totals[3][1] != 350.0 || totals[6][1] != "Food" {
		t.Errorf("unexpected totals block %v", totals)
	}

	trend := blocks[1].Values
	if len(trend) != 3 || trend[1][0] != "2023-12" || trend[2][3] != -25.5 {
		t.Errorf("unexpected trend block %v", trend)
	}

	dist := blocks[2].Values
	if dist[1][2] != 66.67 || dist[2][3] != "#d90000" {
		t.Errorf("unexpected distribution block %v", dist)
	}

	budgets := blocks[3].Values
	if budgets[1][5] != true || budgets[1][4] != 200.0 {
		t.Errorf("unexpected budget block %v", budgets)
	}
}

func TestReportBlocksEmptyReport(t *testing.T) {
	blocks := ReportBlocks("x", core.Report{})
	if blocks[0].Values[6][1] != "" {
		t.Errorf("expected empty top category, got %v", blocks[0].Values[6][1])
	}
	if len(blocks[2].Values) != 1 || blocks[3].Range != "'x'!G3" {
		t.Errorf("unexpected empty layout %+v", blocks[2:])
	}
}

func TestQuoteEscapes(t *testing.T) {
	if got := quote("Bob's"); got != "'Bob''s'" {
		t.Errorf("quote = %s", got)
	}
	if got := ClearRange("Report u1"); got != "'Report u1'!A:M" {
		t.Errorf("ClearRange = %s", got)
	}
}

func TestClearRangeCoversLongBudgetBlock(t *testing.T) {
	r := sampleReport()
	r.Distribution = nil
	r.Budgets = nil
	for i := 0; i < 150; i++ {
		name := fmt.Sprintf("cat %d", i)
		r.Distribution = append(r.Distribution, core.CategorySlice{Name: name, Amount: core.Money{Cents: 100}})
		r.Budgets = append(r.Budgets, core.BudgetUsage{Name: name})
	}

	blocks := ReportBlocks("Report u1", r)
	budgets := blocks[3]
	// dist header+150 rows ends at row 151; budgets start at 153 with 151 rows
	if budgets.Range != "'Report u1'!G153" || len(budgets.Values) != 151 {
		t.Fatalf("budget block at %s with %d rows", budgets.Range, len(budgets.Values))
	}
	for _, b := range blocks {
		for _, row := range b.Values {
			if len(row) > 7 {
				t.Fatalf("block %s writes %d columns, past %s", b.Range, len(row), lastColumn)
			}
		}
	}
	if got := ClearRange("Report u1"); strings.ContainsAny(strings.TrimPrefix(got, "'Report u1'!"), "0123456789") {
		t.Fatalf("ClearRange %s is bounded by row", got)
	}
}
