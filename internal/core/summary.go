package core

// Entry is the signed ledger view of a record: income counts positive,
// every other type negative. The sign is derived here once, at the
// boundary.
type Entry struct {
	Cents int64
}

func (t Transaction) Entry() Entry {
	if t.Type == Income {
		return Entry{Cents: t.Amount.Cents}
	}
	return Entry{Cents: -t.Amount.Cents}
}

// MonthSummary is the dashboard view for one reference month.
type MonthSummary struct {
	OpeningBalance Money
	Income         Money
	Expenses       Money
	ClosingBalance Money
}

// Summarize computes the monthly summary from the complete prior history
// and the reference month's records. The opening balance is re-derived from
// scratch on every call instead of maintaining a persisted running total;
// for personal-use volumes the read cost is negligible and there is no
// incremental counter to drift.
func Summarize(prior, month []Transaction) MonthSummary {
	var opening int64
	for _, t := range prior {
		opening += t.Entry().Cents
	}

	var income, expenses int64
	for _, t := range month {
		if t.Type == Income {
			income += t.Amount.Cents
		} else {
			expenses += t.Amount.Cents
		}
	}

	return MonthSummary{
		OpeningBalance: Money{Cents: opening},
		Income:         Money{Cents: income},
		Expenses:       Money{Cents: expenses},
		ClosingBalance: Money{Cents: opening + income - expenses},
	}
}

// DeletionScope describes the set of records that must be removed together
// when one displayed record is deleted: the record alone, or every member
// of its group dated on or after it.
type DeletionScope struct {
	// GroupID is empty for single-record deletions.
	GroupID   string
	Recurring bool
	From      Date
}

// ScopeOf resolves the deletion scope for a record. Earlier, already
// elapsed group members stay intact; the record and all later members go.
func ScopeOf(t Transaction) DeletionScope {
	switch {
	case t.Installment != nil:
		return DeletionScope{GroupID: t.Installment.InstallmentID, From: t.Date}
	case t.RecurringID != "":
		return DeletionScope{GroupID: t.RecurringID, Recurring: true, From: t.Date}
	default:
		return DeletionScope{From: t.Date}
	}
}
