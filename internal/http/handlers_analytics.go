package http

import (
	"net/http"

	"fintrack/internal/core"
)

// withReport loads the caller's report and hands it to render.
func (s *Server) withReport(w http.ResponseWriter, r *http.Request, render func(core.Report) any) {
	report, err := s.reports.Report(r.Context(), s.userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render(report))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newReportResponse(rep) })
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newMonthList(rep.Monthly) })
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newPeriodResponse(rep.Period) })
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newDistribution(rep.Distribution) })
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newTotalsResponse(rep.Totals, rep.Counts) })
}

func (s *Server) handleDailyAverage(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any {
		return map[string]float64{"daily_average": rep.DailyAverage}
	})
}

func (s *Server) handleTopCategory(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any {
		return map[string]*sliceResponse{"top_category": newTopCategory(rep.TopCategory)}
	})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newBudgetsResponse(rep.Budgets, rep.BudgetTotals) })
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	s.withReport(w, r, func(rep core.Report) any { return newTransactionList(rep.Recent) })
}
