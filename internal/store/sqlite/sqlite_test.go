package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "contabil.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRoundTripGroupedRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		UserID:      "u1",
		Description: "tv (1/3)",
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2024, 1, 15),
		Type:        core.Installment,
		CardName:    "Visa",
		Installment: &core.InstallmentDetails{InstallmentID: "grp", Current: 1, Total: 3},
	}
	saved, err := repo.PutBatch(ctx, []core.Transaction{in})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	id := saved[0].ID
	if id == "" {
		t.Fatal("expected assigned ID")
	}

	got, err := repo.Get(ctx, "u1", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != in.Description || got.Amount != in.Amount || got.Type != in.Type {
		t.Fatalf("record changed on round trip: %+v", got)
	}
	if !got.Date.Equal(in.Date.Time) {
		t.Fatalf("date %s, want %s", got.Date, in.Date)
	}
	if got.Installment == nil || *got.Installment != *in.Installment {
		t.Fatalf("installment details lost: %+v", got.Installment)
	}
	if got.CardName != "Visa" {
		t.Fatalf("card name lost")
	}

	if _, err := repo.Get(ctx, "u2", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}

func TestBatchAndRangeQueries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var batch []core.Transaction
	for i := 0; i < 3; i++ {
		batch = append(batch, core.Transaction{
			UserID:      "u1",
			Description: "rent",
			Amount:      core.Money{Cents: 120000},
			Date:        core.NewDate(2024, 1, 31).AddMonths(i),
			Type:        core.FixedExpense,
			RecurringID: "r1",
		})
	}
	out, err := repo.PutBatch(ctx, batch)
	if err != nil {
		t.Fatalf("put batch: %v", err)
	}
	if len(out) != 3 || out[0].ID == "" {
		t.Fatalf("batch output missing IDs: %+v", out)
	}

	feb, err := repo.ListBetween(ctx, "u1", core.MonthStart(2024, 2), core.MonthEnd(2024, 2))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(feb) != 1 || !feb[0].Date.Equal(core.NewDate(2024, 2, 29).Time) {
		t.Fatalf("february query: %+v", feb)
	}

	through, err := repo.ListThrough(ctx, "u1", core.MonthEnd(2024, 2))
	if err != nil {
		t.Fatalf("list through: %v", err)
	}
	if len(through) != 2 {
		t.Fatalf("expected 2 records through February, got %d", len(through))
	}

	grp, err := repo.ListGroup(ctx, "u1", store.GroupQuery{GroupID: "r1", Recurring: true, From: core.NewDate(2024, 2, 1)})
	if err != nil {
		t.Fatalf("list group: %v", err)
	}
	if len(grp) != 2 {
		t.Fatalf("expected 2 forward group members, got %d", len(grp))
	}
}

func TestDeleteAllRollsBackOnMissingRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.PutBatch(ctx, []core.Transaction{{
		UserID:      "u1",
		Description: "salary",
		Amount:      core.Money{Cents: 300000},
		Date:        core.NewDate(2024, 1, 5),
		Type:        core.Income,
	}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	id := saved[0].ID

	if err := repo.DeleteAll(ctx, "u1", []string{id, "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Get(ctx, "u1", id); err != nil {
		t.Fatalf("record should survive rolled-back delete: %v", err)
	}

	if err := repo.DeleteAll(ctx, "u1", []string{id}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "u1", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
}

func TestAuditLog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.AppendAudit(ctx, AuditEntry{
		Action:     "created",
		UserID:     "u1",
		RecordIDs:  []string{"a", "b"},
		GroupID:    "grp",
		OccurredAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("append audit: %v", err)
	}

	n, err := repo.CountAudit(ctx, "u1")
	if err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 audit row, got %d", n)
	}
}
