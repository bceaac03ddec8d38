package core

import (
	"errors"
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Description: "groceries",
		Amount:      Money{Cents: 1500},
		Date:        NewDate(2024, 1, 15),
		Type:        VariableExpense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"zero date", Draft{Description: "a", Amount: Money{Cents: 1}, Type: Income}, nil},
		{"empty description", Draft{Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}, Type: Income}, ErrEmptyDescription},
		{"zero amount", Draft{Date: NewDate(2024, 1, 1), Description: "a", Type: Income}, ErrInvalidAmount},
		{"bad type", Draft{Date: NewDate(2024, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: "transfer"}, ErrInvalidType},
		{"zero installments", Draft{Date: NewDate(2024, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: Installment}, ErrInvalidInstallments},
		{"negative installments", Draft{Date: NewDate(2024, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: Installment, Installments: -3}, ErrInvalidInstallments},
		{"oversized installments", Draft{Date: NewDate(2024, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: Installment, Installments: ExpansionLimit + 1}, ErrExpansionTooLarge},
		{"negative repeat", Draft{Date: NewDate(2024, 1, 1), Description: "a", Amount: Money{Cents: 1}, Type: FixedExpense, RepeatMonths: -1}, ErrInvalidRepeat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIsGrouped(t *testing.T) {
	plain := Transaction{Type: VariableExpense}
	if plain.IsGrouped() {
		t.Fatalf("plain record should not be grouped")
	}
	inst := Transaction{Type: Installment, Installment: &InstallmentDetails{InstallmentID: "g", Current: 1, Total: 3}}
	if !inst.IsGrouped() {
		t.Fatalf("installment record should be grouped")
	}
	rec := Transaction{Type: FixedExpense, RecurringID: "r"}
	if !rec.IsGrouped() {
		t.Fatalf("recurring record should be grouped")
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2024, 2, 29).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}
