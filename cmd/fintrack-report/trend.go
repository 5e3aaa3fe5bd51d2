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

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Income and expense for the last six months",
	RunE:  runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	report, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return apphttp.EncodeReport(os.Stdout, report)
	}
	return renderTrend(os.Stdout, report.Monthly)
}

func renderTrend(out io.Writer, months []core.MonthBucket) error {
	fmt.Fprintln(out, renderTitle("SIX-MONTH TREND"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Month\tIncome\tExpense\tBalance\t\n")
	for _, b := range months {
		fmt.Fprintf(w, "%s %d\t%s\t%s\t%s\t\n", b.Month.String()[:3], b.Year, b.Income, b.Expense, b.Balance)
	}
	return w.Flush()
}
