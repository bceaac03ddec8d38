package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Expand turns a validated draft into the ordered sequence of records to
// persist, stepping one calendar month per member. The whole sequence must
// be written as a single atomic batch: group membership only means anything
// if creation is all-or-nothing.
//
// Installment amounts are split as amount/n cents per member; the leftover
// amount mod n cents land one cent each on the first members, so the group
// always sums to the original amount exactly.
func Expand(d Draft) ([]Transaction, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch {
	case d.Type == Installment && d.Installments > 1:
		return expandInstallments(d), nil
	case d.Type == FixedExpense:
		return expandRecurring(d), nil
	default:
		// Income, variable expenses and single-installment drafts
		// persist as one plain record with no group identifier.
		return []Transaction{{
			Description: d.Description,
			Amount:      d.Amount,
			Date:        d.Date,
			Type:        d.Type,
			CardName:    d.CardName,
		}}, nil
	}
}

func expandInstallments(d Draft) []Transaction {
	n := d.Installments
	groupID := uuid.NewString()
	base := d.Amount.Cents / int64(n)
	remainder := d.Amount.Cents % int64(n)

	records := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		records = append(records, Transaction{
			Description: fmt.Sprintf("%s (%d/%d)", d.Description, i+1, n),
			Amount:      Money{Cents: cents},
			Date:        d.Date.AddMonths(i),
			Type:        Installment,
			CardName:    d.CardName,
			Installment: &InstallmentDetails{
				InstallmentID: groupID,
				Current:       i + 1,
				Total:         n,
			},
		})
	}
	return records
}

func expandRecurring(d Draft) []Transaction {
	months := d.RepeatMonths
	if months == 0 {
		months = 12
	}
	groupID := uuid.NewString()

	records := make([]Transaction, 0, months)
	for i := 0; i < months; i++ {
		records = append(records, Transaction{
			Description: d.Description,
			Amount:      d.Amount,
			Date:        d.Date.AddMonths(i),
			Type:        FixedExpense,
			RecurringID: groupID,
		})
	}
	return records
}
