package core

import (
	"fmt"
	"testing"
)

func TestExpandSingleRecordTypes(t *testing.T) {
	for _, typ := range []TransactionType{Income, VariableExpense} {
		records, err := Expand(Draft{
			Description: "salary",
			Amount:      Money{Cents: 500000},
			Date:        NewDate(2024, 1, 5),
			Type:        typ,
		})
		if err != nil {
			t.Fatalf("%s: expected ok, got %v", typ, err)
		}
		if len(records) != 1 {
			t.Fatalf("%s: expected 1 record, got %d", typ, len(records))
		}
		r := records[0]
		if r.Amount.Cents != 500000 || !r.Date.Equal(NewDate(2024, 1, 5).Time) {
			t.Fatalf("%s: amount/date changed: %+v", typ, r)
		}
		if r.IsGrouped() {
			t.Fatalf("%s: single record must carry no group identifier", typ)
		}
	}
}

func TestExpandInstallments(t *testing.T) {
	records, err := Expand(Draft{
		Description:  "notebook",
		Amount:       Money{Cents: 30000},
		Date:         NewDate(2024, 1, 15),
		Type:         Installment,
		Installments: 3,
		CardName:     "Visa",
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	groupID := records[0].Installment.InstallmentID
	if groupID == "" {
		t.Fatalf("missing group identifier")
	}
	wantDates := []Date{NewDate(2024, 1, 15), NewDate(2024, 2, 15), NewDate(2024, 3, 15)}
	for i, r := range records {
		if r.Amount.Cents != 10000 {
			t.Fatalf("record %d: amount %d, want 10000", i, r.Amount.Cents)
		}
		if !r.Date.Equal(wantDates[i].Time) {
			t.Fatalf("record %d: date %s, want %s", i, r.Date, wantDates[i])
		}
		want := fmt.Sprintf("notebook (%d/3)", i+1)
		if r.Description != want {
			t.Fatalf("record %d: description %q, want %q", i, r.Description, want)
		}
		if r.Installment == nil || r.Installment.InstallmentID != groupID {
			t.Fatalf("record %d: group identifier not shared", i)
		}
		if r.Installment.Current != i+1 || r.Installment.Total != 3 {
			t.Fatalf("record %d: position %d/%d", i, r.Installment.Current, r.Installment.Total)
		}
		if r.CardName != "Visa" {
			t.Fatalf("record %d: card name not copied", i)
		}
	}
}

func TestExpandInstallmentRemainder(t *testing.T) {
	// 100.00 over 3: the cent that doesn't divide lands on the first member.
	records, err := Expand(Draft{
		Description:  "sofa",
		Amount:       Money{Cents: 10000},
		Date:         NewDate(2024, 5, 1),
		Type:         Installment,
		Installments: 3,
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	var sum int64
	for _, r := range records {
		sum += r.Amount.Cents
	}
	if sum != 10000 {
		t.Fatalf("group sums to %d, want 10000", sum)
	}
	if records[0].Amount.Cents != 3334 || records[1].Amount.Cents != 3333 || records[2].Amount.Cents != 3333 {
		t.Fatalf("unexpected split: %d/%d/%d",
			records[0].Amount.Cents, records[1].Amount.Cents, records[2].Amount.Cents)
	}
}

func TestExpandSingleInstallmentFallsBack(t *testing.T) {
	records, err := Expand(Draft{
		Description:  "headphones",
		Amount:       Money{Cents: 9900},
		Date:         NewDate(2024, 3, 3),
		Type:         Installment,
		Installments: 1,
		CardName:     "Master",
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Installment != nil {
		t.Fatalf("single installment must not form a group")
	}
	if records[0].Description != "headphones" {
		t.Fatalf("description must stay unsuffixed, got %q", records[0].Description)
	}
}

func TestExpandRecurring(t *testing.T) {
	records, err := Expand(Draft{
		Description:  "rent",
		Amount:       Money{Cents: 5000},
		Date:         NewDate(2024, 1, 31),
		Type:         FixedExpense,
		RepeatMonths: 2,
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Date.Equal(NewDate(2024, 1, 31).Time) || !records[1].Date.Equal(NewDate(2024, 2, 29).Time) {
		t.Fatalf("month stepping broke: %s, %s", records[0].Date, records[1].Date)
	}
	if records[0].RecurringID == "" || records[0].RecurringID != records[1].RecurringID {
		t.Fatalf("recurring identifier not shared")
	}
	for i, r := range records {
		if r.Amount.Cents != 5000 || r.Description != "rent" {
			t.Fatalf("record %d: amount/description must be identical across members", i)
		}
		if r.CardName != "" {
			t.Fatalf("record %d: recurring records carry no card name", i)
		}
	}
}

func TestExpandRecurringDefaultsToTwelveMonths(t *testing.T) {
	records, err := Expand(Draft{
		Description: "gym",
		Amount:      Money{Cents: 8900},
		Date:        NewDate(2024, 6, 10),
		Type:        FixedExpense,
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 12 {
		t.Fatalf("expected 12 records, got %d", len(records))
	}
}

func TestExpandRejectsInvalidDraft(t *testing.T) {
	if _, err := Expand(Draft{Type: Income}); err == nil {
		t.Fatalf("expected validation error")
	}
}
