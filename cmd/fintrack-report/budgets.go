package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	apphttp "fintrack/internal/http"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Spending against each category budget",
	RunE:  runBudgets,
}

func init() {
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(cmd *cobra.Command, _ []string) error {
	report, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return apphttp.EncodeReport(os.Stdout, report)
	}
	return renderBudgets(os.Stdout, report.Budgets, report.BudgetTotals)
}

func renderBudgets(out io.Writer, usages []core.BudgetUsage, sum core.BudgetSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, renderTitle("BUDGETS"))
	fmt.Fprintf(w, "Category\tBudget\tSpent\tRemaining\tUsed\t\n")
	for _, u := range usages {
		flag := ""
		if u.OverBudget {
			flag = renderWarn("over")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n", u.Name, u.Budget, u.Spent, u.Remaining, u.PercentUsed, flag)
	}
	fmt.Fprintf(w, "Total\t%s\t%s\t%s\t%.1f%%\t\n", sum.TotalBudget, sum.TotalSpent, sum.Remaining, sum.PercentUsed)
	return w.Flush()
}
