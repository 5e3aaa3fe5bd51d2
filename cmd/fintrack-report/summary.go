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

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, period comparison and category distribution",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	report, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return apphttp.EncodeReport(os.Stdout, report)
	}
	return renderSummary(os.Stdout, report)
}

func renderSummary(out io.Writer, r core.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, renderTitle("FINANCE REPORT"))
	fmt.Fprintf(w, "Generated\t%s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Income\t%s\n", r.Totals.Income)
	fmt.Fprintf(w, "Expense\t%s\n", r.Totals.Expense)
	fmt.Fprintf(w, "Balance\t%s\n", r.Totals.Balance)
	fmt.Fprintf(w, "Savings rate\t%.1f%%\n", r.Totals.SavingsRate)
	fmt.Fprintf(w, "Daily average\t%.2f\n", r.DailyAverage)
	if r.TopCategory != nil {
		fmt.Fprintf(w, "Top category\t%s (%s)\n", r.TopCategory.Name, r.TopCategory.Amount)
	} else {
		fmt.Fprintf(w, "Top category\t-\n")
	}
	fmt.Fprintln(w)

	p := r.Period
	fmt.Fprintln(w, renderHeader("This month vs last month"))
	fmt.Fprintf(w, "\tThis month\tLast month\tChange\n")
	fmt.Fprintf(w, "Income\t%s\t%s\t%+.1f%%\n", p.Current.Income, p.Previous.Income, p.Change.Income)
	fmt.Fprintf(w, "Expense\t%s\t%s\t%+.1f%%\n", p.Current.Expense, p.Previous.Expense, p.Change.Expense)
	fmt.Fprintf(w, "Balance\t%s\t%s\t%+.1f%%\n", p.Current.Balance, p.Previous.Balance, p.Change.Balance)

	if len(r.Distribution) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderHeader("Spending by category"))
		fmt.Fprintf(w, "Category\tAmount\tShare\tColor\n")
		for _, s := range r.Distribution {
			fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%s\n", s.Name, s.Amount, s.Percentage, s.ChartColor)
		}
	}
	return w.Flush()
}
