// Package store defines the transaction store port and its shared errors.
// Backends live in subpackages: memory (default), sqlite (local file) and
// dynamo (managed document database).
package store

import (
	"context"
	"errors"

	"github.com/lucasamarante27/my-contabil/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another user; callers cannot tell the two apart.
	ErrNotFound = errors.New("transaction not found")

	// ErrBatchTooLarge is returned when an atomic batch exceeds what the
	// backend can write or delete in one all-or-nothing operation.
	ErrBatchTooLarge = errors.New("batch exceeds atomic write limit")
)

// GroupQuery selects the forward-looking members of an installment or
// recurring group: every record sharing GroupID dated on or after From.
type GroupQuery struct {
	GroupID   string
	Recurring bool
	From      core.Date
}

// TransactionStore is the document-store capability the ledger consumes.
// All queries are scoped to a user; record IDs are assigned on creation.
// PutBatch and DeleteAll are atomic: either every record is written
// (removed), or none are and the error reports why.
type TransactionStore interface {
	// PutBatch persists an expansion as one atomic batch and returns the
	// records with their assigned IDs, in input order. Single records are
	// a batch of one.
	PutBatch(ctx context.Context, ts []core.Transaction) ([]core.Transaction, error)

	// Get fetches one record by ID, scoped to the user.
	Get(ctx context.Context, userID, id string) (core.Transaction, error)

	// ListThrough returns all of the user's records dated on or before
	// the cutoff, in ascending date order.
	ListThrough(ctx context.Context, userID string, cutoff core.Date) ([]core.Transaction, error)

	// ListBetween returns the user's records with from <= date <= to,
	// in ascending date order. Both bounds are inclusive.
	ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Transaction, error)

	// ListGroup returns the user's records matched by the group query,
	// in ascending date order.
	ListGroup(ctx context.Context, userID string, q GroupQuery) ([]core.Transaction, error)

	// DeleteAll removes the given records in one atomic operation.
	DeleteAll(ctx context.Context, userID string, ids []string) error

	Close() error
}
