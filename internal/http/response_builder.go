package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// money encodes as a JSON number with exactly two decimals.
type money core.Money

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(core.Money(m).Decimal().StringFixed(2)), nil
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	CategoryID  *string   `json:"category_id"`
	Kind        core.Kind `json:"kind"`
	Amount      money     `json:"amount"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Budget    money     `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
}

type monthResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Label   string `json:"label"`
	Income  money  `json:"income"`
	Expense money  `json:"expense"`
	Balance money  `json:"balance"`
}

type periodValuesResponse struct {
	Income  money `json:"income"`
	Expense money `json:"expense"`
	Balance money `json:"balance"`
}

type periodChangeResponse struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type periodResponse struct {
	Current  periodValuesResponse `json:"current"`
	Previous periodValuesResponse `json:"previous"`
	Change   periodChangeResponse `json:"change"`
}

type sliceResponse struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Amount     money   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
	ChartColor string  `json:"chart_color"`
}

type countsResponse struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
}

type totalsResponse struct {
	Income      money          `json:"income"`
	Expense     money          `json:"expense"`
	Balance     money          `json:"balance"`
	SavingsRate float64        `json:"savings_rate"`
	Counts      countsResponse `json:"counts"`
}

type budgetResponse struct {
	CategoryID       string  `json:"category_id"`
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	Budget           money   `json:"budget"`
	Spent            money   `json:"spent"`
	Remaining        money   `json:"remaining"`
	PercentUsed      float64 `json:"percent_used"`
	OverBudget       bool    `json:"over_budget"`
	TransactionCount int     `json:"transaction_count"`
}

type budgetSummaryResponse struct {
	TotalBudget            money   `json:"total_budget"`
	TotalSpent             money   `json:"total_spent"`
	Remaining              money   `json:"remaining"`
	PercentUsed            float64 `json:"percent_used"`
	CategoriesWithSpending int     `json:"categories_with_spending"`
}

type budgetsResponse struct {
	Categories []budgetResponse      `json:"categories"`
	Summary    budgetSummaryResponse `json:"summary"`
}

type reportResponse struct {
	GeneratedAt  time.Time             `json:"generated_at"`
	Monthly      []monthResponse       `json:"monthly"`
	Period       periodResponse        `json:"period"`
	Distribution []sliceResponse       `json:"distribution"`
	Totals       totalsResponse        `json:"totals"`
	DailyAverage float64               `json:"daily_average"`
	TopCategory  *sliceResponse        `json:"top_category"`
	Budgets      budgetsResponse       `json:"budgets"`
	Recent       []transactionResponse `json:"recent"`
}

func newTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		Kind:        t.Kind,
		Amount:      money(t.Amount),
		Date:        t.Date.String(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func newTransactionList(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

func newCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Budget:    money(c.Budget),
		CreatedAt: c.CreatedAt,
	}
}

func newCategoryList(cats []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

func newMonthList(buckets []core.MonthBucket) []monthResponse {
	out := make([]monthResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthResponse{
			Year:    b.Year,
			Month:   int(b.Month),
			Label:   monthLabel(b.Month),
			Income:  money(b.Income),
			Expense: money(b.Expense),
			Balance: money(b.Balance),
		})
	}
	return out
}

func newPeriodValues(v core.PeriodValues) periodValuesResponse {
	return periodValuesResponse{Income: money(v.Income), Expense: money(v.Expense), Balance: money(v.Balance)}
}

func newPeriodResponse(p core.PeriodComparison) periodResponse {
	return periodResponse{
		Current:  newPeriodValues(p.Current),
		Previous: newPeriodValues(p.Previous),
		Change: periodChangeResponse{
			Income:  p.Change.Income,
			Expense: p.Change.Expense,
			Balance: p.Change.Balance,
		},
	}
}

func newSliceResponse(c core.CategorySlice) sliceResponse {
	return sliceResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Amount:     money(c.Amount),
		Percentage: c.Percentage,
		Color:      c.Color,
		ChartColor: c.ChartColor,
	}
}

func newDistribution(slices []core.CategorySlice) []sliceResponse {
	out := make([]sliceResponse, 0, len(slices))
	for _, c := range slices {
		out = append(out, newSliceResponse(c))
	}
	return out
}

func newTopCategory(top *core.CategorySlice) *sliceResponse {
	if top == nil {
		return nil
	}
	r := newSliceResponse(*top)
	return &r
}

func newTotalsResponse(t core.Totals, c core.KindCounts) totalsResponse {
	return totalsResponse{
		Income:      money(t.Income),
		Expense:     money(t.Expense),
		Balance:     money(t.Balance),
		SavingsRate: t.SavingsRate,
		Counts:      countsResponse{Income: c.Income, Expense: c.Expense},
	}
}

func newBudgetsResponse(usages []core.BudgetUsage, sum core.BudgetSummary) budgetsResponse {
	cats := make([]budgetResponse, 0, len(usages))
	for _, u := range usages {
		cats = append(cats, budgetResponse{
			CategoryID:       u.CategoryID,
			Name:             u.Name,
			Color:            u.Color,
			Budget:           money(u.Budget),
			Spent:            money(u.Spent),
			Remaining:        money(u.Remaining),
			PercentUsed:      u.PercentUsed,
			OverBudget:       u.OverBudget,
			TransactionCount: u.TransactionCount,
		})
	}
	return budgetsResponse{
		Categories: cats,
		Summary: budgetSummaryResponse{
			TotalBudget:            money(sum.TotalBudget),
			TotalSpent:             money(sum.TotalSpent),
			Remaining:              money(sum.Remaining),
			PercentUsed:            sum.PercentUsed,
			CategoriesWithSpending: sum.CategoriesWithSpending,
		},
	}
}

func newReportResponse(r core.Report) reportResponse {
	return reportResponse{
		GeneratedAt:  r.GeneratedAt,
		Monthly:      newMonthList(r.Monthly),
		Period:       newPeriodResponse(r.Period),
		Distribution: newDistribution(r.Distribution),
		Totals:       newTotalsResponse(r.Totals, r.Counts),
		DailyAverage: r.DailyAverage,
		TopCategory:  newTopCategory(r.TopCategory),
		Budgets:      newBudgetsResponse(r.Budgets, r.BudgetTotals),
		Recent:       newTransactionList(r.Recent),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and reported as a 500 without details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	var berr *badRequestError
	switch {
	case errors.As(err, &berr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: berr.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Request failed", err, log.ComponentHTTP, r.Method,
			log.NewFields().WithUserID(s.userID(r)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// EncodeReport writes r in the same JSON shape GET /api/analytics returns.
func EncodeReport(w io.Writer, r core.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReportResponse(r))
}
