package http

import (
	"net/http"

	"github.com/lucasamarante27/my-contabil/internal/core"
)

type summaryResponse struct {
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	OpeningBalance moneyView `json:"openingBalance"`
	Income         moneyView `json:"income"`
	Expenses       moneyView `json:"expenses"`
	ClosingBalance moneyView `json:"closingBalance"`
}

type moneyView struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func toMoneyView(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Formatted: core.FormatCents(m.Cents)}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	id, _ := identityFrom(r.Context())

	year, month, ok := yearMonth(w, r)
	if !ok {
		return
	}

	summary, err := s.ledger.MonthSummary(r.Context(), id.UserID, year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Year:           year,
		Month:          month,
		OpeningBalance: toMoneyView(summary.OpeningBalance),
		Income:         toMoneyView(summary.Income),
		Expenses:       toMoneyView(summary.Expenses),
		ClosingBalance: toMoneyView(summary.ClosingBalance),
	})
}
