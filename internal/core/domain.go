package core

import (
	"errors"
	"strings"
)

const (
	Income          TransactionType = "income"
	FixedExpense    TransactionType = "fixedExpense"
	VariableExpense TransactionType = "variableExpense"
	Installment     TransactionType = "installment"
)

// ExpansionLimit bounds how many records a single draft may expand into.
// It matches the atomic batch limit of the document store backend.
const ExpansionLimit = 100

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// InstallmentDetails links a record to the purchase it was split from.
	// Current ranges 1..Total, one record per value.
	InstallmentDetails struct {
		InstallmentID string
		Current       int
		Total         int
	}

	// Transaction is the persisted unit. ID is assigned by the store on
	// creation; Date is immutable afterwards (records are created and
	// deleted, never edited).
	Transaction struct {
		ID          string
		UserID      string
		Description string
		Amount      Money
		Date        Date
		Type        TransactionType
		Installment *InstallmentDetails
		RecurringID string
		CardName    string
	}

	// Draft is a user-submitted transaction intent before expansion.
	Draft struct {
		Description  string
		Amount       Money
		Date         Date
		Type         TransactionType
		Installments int
		CardName     string
		RepeatMonths int
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidInstallments = errors.New("invalid installment count")
	ErrInvalidRepeat       = errors.New("invalid repeat month count")
	ErrExpansionTooLarge   = errors.New("expansion exceeds batch limit")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, FixedExpense, VariableExpense, Installment:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsGrouped reports whether the record belongs to an installment or
// recurring group.
func (t Transaction) IsGrouped() bool {
	return t.Installment != nil || t.RecurringID != ""
}

func (d Draft) Validate() error {
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if d.Type == Installment {
		if d.Installments < 1 {
			return ErrInvalidInstallments
		}
		if d.Installments > ExpansionLimit {
			return ErrExpansionTooLarge
		}
	}
	if d.Type == FixedExpense {
		if d.RepeatMonths < 0 {
			return ErrInvalidRepeat
		}
		if d.RepeatMonths > ExpansionLimit {
			return ErrExpansionTooLarge
		}
	}
	return nil
}
