// Package memory implements the transaction store in process memory.
// It is the default backend for local development and the store used by
// the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Transaction
}

func New() *Store {
	return &Store{items: make(map[string]core.Transaction)}
}

func (s *Store) PutBatch(_ context.Context, ts []core.Transaction) ([]core.Transaction, error) {
	if len(ts) > core.ExpansionLimit {
		return nil, store.ErrBatchTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(ts))
	for i, t := range ts {
		t.ID = uuid.NewString()
		s.items[t.ID] = t
		out[i] = t
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListThrough(_ context.Context, userID string, cutoff core.Date) ([]core.Transaction, error) {
	return s.list(userID, func(t core.Transaction) bool {
		return !t.Date.After(cutoff.Time)
	}), nil
}

func (s *Store) ListBetween(_ context.Context, userID string, from, to core.Date) ([]core.Transaction, error) {
	return s.list(userID, func(t core.Transaction) bool {
		return !t.Date.Before(from.Time) && !t.Date.After(to.Time)
	}), nil
}

func (s *Store) ListGroup(_ context.Context, userID string, q store.GroupQuery) ([]core.Transaction, error) {
	return s.list(userID, func(t core.Transaction) bool {
		if t.Date.Before(q.From.Time) {
			return false
		}
		if q.Recurring {
			return t.RecurringID == q.GroupID
		}
		return t.Installment != nil && t.Installment.InstallmentID == q.GroupID
	}), nil
}

func (s *Store) DeleteAll(_ context.Context, userID string, ids []string) error {
	if len(ids) > core.ExpansionLimit {
		return store.ErrBatchTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Verify the whole set first so the delete is all-or-nothing.
	for _, id := range ids {
		t, ok := s.items[id]
		if !ok || t.UserID != userID {
			return store.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(s.items, id)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) list(userID string, keep func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.items {
		if t.UserID != userID {
			continue
		}
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
