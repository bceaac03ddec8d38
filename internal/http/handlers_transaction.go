package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lucasamarante27/my-contabil/internal/core"
)

type createTransactionRequest struct {
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Installments int    `json:"installments"`
	RepeatMonths int    `json:"repeatMonths"`
	CardName     string `json:"cardName"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	draft := core.Draft{
		Description:  strings.TrimSpace(req.Description),
		Amount:       core.Money{Cents: cents},
		Date:         date,
		Type:         core.TransactionType(req.Type),
		Installments: req.Installments,
		RepeatMonths: req.RepeatMonths,
		CardName:     strings.TrimSpace(req.CardName),
	}

	saved, err := s.ledger.Record(r.Context(), id.UserID, draft)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"transactions": toViews(saved),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	year, month, ok := yearMonth(w, r)
	if !ok {
		return
	}

	ts, err := s.ledger.ListMonth(r.Context(), id.UserID, year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toViews(ts),
	})
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id, _ := identityFrom(r.Context())

	txID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if txID == "" || strings.Contains(txID, "/") {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	// Group deletions remove future members too, so require an explicit
	// confirmation flag.
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusConflict, "deletion must be confirmed with confirm=true")
		return
	}

	deleted, err := s.ledger.Delete(r.Context(), id.UserID, txID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deletedIds": deleted,
	})
}

// yearMonth reads year and month query parameters, defaulting to the
// current month.
func yearMonth(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return 0, 0, false
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return 0, 0, false
		}
		month = m
	}
	return year, month, true
}
