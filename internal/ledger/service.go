// Package ledger is the application service behind the HTTP API. It
// validates drafts, expands them into stored records, aggregates
// monthly summaries and resolves group deletions.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lucasamarante27/my-contabil/internal/amqp"
	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

// EventPublisher pushes ledger mutation events to the event pipeline.
// Publishing is best effort: a broker outage never fails a user request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

type Service struct {
	store  store.TransactionStore
	events EventPublisher
}

// New creates the ledger service. events may be nil when no broker is
// configured.
func New(st store.TransactionStore, events EventPublisher) *Service {
	return &Service{store: st, events: events}
}

// Record validates and expands a draft, then persists every resulting
// record in one atomic batch. It returns the stored records with their
// assigned IDs.
func (s *Service) Record(ctx context.Context, userID string, d core.Draft) ([]core.Transaction, error) {
	expanded, err := core.Expand(d)
	if err != nil {
		return nil, err
	}
	for i := range expanded {
		expanded[i].UserID = userID
	}

	saved, err := s.store.PutBatch(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("persist records: %w", err)
	}

	s.publish(ctx, amqp.ActionCreated, userID, saved)
	return saved, nil
}

// MonthSummary aggregates the dashboard numbers for one month. The two
// range queries behind it are independent and run concurrently.
func (s *Service) MonthSummary(ctx context.Context, userID string, year, month int) (core.MonthSummary, error) {
	var prior, inMonth []core.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prior, err = s.store.ListThrough(gctx, userID, core.MonthEnd(year, month-1))
		return err
	})
	g.Go(func() error {
		var err error
		inMonth, err = s.store.ListBetween(gctx, userID, core.MonthStart(year, month), core.MonthEnd(year, month))
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthSummary{}, fmt.Errorf("load month data: %w", err)
	}

	return core.Summarize(prior, inMonth), nil
}

// ListMonth returns the records of one month in date order.
func (s *Service) ListMonth(ctx context.Context, userID string, year, month int) ([]core.Transaction, error) {
	return s.store.ListBetween(ctx, userID, core.MonthStart(year, month), core.MonthEnd(year, month))
}

// Delete removes a record. When the record belongs to an installment or
// recurring group, every member dated on or after it goes too, in one
// atomic batch. It returns the IDs that were removed.
func (s *Service) Delete(ctx context.Context, userID, id string) ([]string, error) {
	t, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	scope := core.ScopeOf(t)
	ids := []string{t.ID}
	if scope.GroupID != "" {
		members, err := s.store.ListGroup(ctx, userID, store.GroupQuery{
			GroupID:   scope.GroupID,
			Recurring: scope.Recurring,
			From:      scope.From,
		})
		if err != nil {
			return nil, fmt.Errorf("load group members: %w", err)
		}
		ids = ids[:0]
		for _, m := range members {
			ids = append(ids, m.ID)
		}
	}

	if err := s.store.DeleteAll(ctx, userID, ids); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Records deleted",
		"user_id", userID,
		"count", len(ids),
		"group_id", scope.GroupID)

	s.publishIDs(ctx, amqp.ActionDeleted, userID, ids, scope.GroupID)
	return ids, nil
}

func (s *Service) publish(ctx context.Context, action, userID string, ts []core.Transaction) {
	ids := make([]string, len(ts))
	var groupID string
	for i, t := range ts {
		ids[i] = t.ID
		if t.Installment != nil {
			groupID = t.Installment.InstallmentID
		} else if t.RecurringID != "" {
			groupID = t.RecurringID
		}
	}
	s.publishIDs(ctx, action, userID, ids, groupID)
}

func (s *Service) publishIDs(ctx context.Context, action, userID string, ids []string, groupID string) {
	if s.events == nil {
		return
	}
	event := amqp.NewTransactionEvent(action, userID, ids, groupID)
	if err := s.events.PublishTransactionEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			"error", err,
			"action", action,
			"user_id", userID)
	}
}
