package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps known sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidInstallments),
		errors.Is(err, core.ErrInvalidRepeat),
		errors.Is(err, core.ErrExpansionTooLarge),
		errors.Is(err, store.ErrBatchTooLarge):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type installmentView struct {
	InstallmentID string `json:"installmentId"`
	Current       int    `json:"current"`
	Total         int    `json:"total"`
}

type transactionView struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	AmountCents int64            `json:"amountCents"`
	Amount      string           `json:"amount"`
	Date        string           `json:"date"`
	Type        string           `json:"type"`
	Installment *installmentView `json:"installment,omitempty"`
	RecurringID string           `json:"recurringId,omitempty"`
	CardName    string           `json:"cardName,omitempty"`
}

func toView(t core.Transaction) transactionView {
	v := transactionView{
		ID:          t.ID,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Amount:      core.FormatCents(t.Amount.Cents),
		Date:        t.Date.String(),
		Type:        string(t.Type),
		RecurringID: t.RecurringID,
		CardName:    t.CardName,
	}
	if t.Installment != nil {
		v.Installment = &installmentView{
			InstallmentID: t.Installment.InstallmentID,
			Current:       t.Installment.Current,
			Total:         t.Installment.Total,
		}
	}
	return v
}

func toViews(ts []core.Transaction) []transactionView {
	views := make([]transactionView, len(ts))
	for i, t := range ts {
		views[i] = toView(t)
	}
	return views
}
