// Package sqlite implements the transaction store on a local SQLite file.
// Atomic batches and group deletes use a single SQL transaction. The same
// database also hosts the audit log written by the event worker.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertSQL = `INSERT INTO transactions
	(id, user_id, description, amount_cents, tx_date, tx_type,
	 installment_id, installment_current, installment_total, recurring_id, card_name)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *Repository) PutBatch(ctx context.Context, ts []core.Transaction) ([]core.Transaction, error) {
	if len(ts) > core.ExpansionLimit {
		return nil, store.ErrBatchTooLarge
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	out := make([]core.Transaction, len(ts))
	for i, t := range ts {
		t.ID = uuid.NewString()
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs(t)...); err != nil {
			return nil, fmt.Errorf("insert batch record %d: %w", i, err)
		}
		out[i] = t
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Transaction batch saved to SQLite",
		"count", len(out),
		"user_id", ts[0].UserID)

	return out, nil
}

const selectColumns = `id, user_id, description, amount_cents, tx_date, tx_type,
	installment_id, installment_current, installment_total, recurring_id, card_name`

func (r *Repository) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) ListThrough(ctx context.Context, userID string, cutoff core.Date) ([]core.Transaction, error) {
	return r.query(ctx,
		`SELECT `+selectColumns+` FROM transactions
		 WHERE user_id = ? AND tx_date <= ? ORDER BY tx_date, id`,
		userID, cutoff.String())
}

func (r *Repository) ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Transaction, error) {
	return r.query(ctx,
		`SELECT `+selectColumns+` FROM transactions
		 WHERE user_id = ? AND tx_date >= ? AND tx_date <= ? ORDER BY tx_date, id`,
		userID, from.String(), to.String())
}

func (r *Repository) ListGroup(ctx context.Context, userID string, q store.GroupQuery) ([]core.Transaction, error) {
	column := "installment_id"
	if q.Recurring {
		column = "recurring_id"
	}
	return r.query(ctx,
		`SELECT `+selectColumns+` FROM transactions
		 WHERE user_id = ? AND `+column+` = ? AND tx_date >= ? ORDER BY tx_date, id`,
		userID, q.GroupID, q.From.String())
}

func (r *Repository) DeleteAll(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > core.ExpansionLimit {
		return store.ErrBatchTooLarge
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		if n == 0 {
			// Roll the whole set back rather than leave a partial group.
			return store.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Transactions deleted from SQLite",
		"count", len(ids),
		"user_id", userID)

	return nil
}

// AuditEntry is one row of the append-only audit log maintained by the
// event worker.
type AuditEntry struct {
	Action     string
	UserID     string
	RecordIDs  []string
	GroupID    string
	OccurredAt time.Time
}

// AppendAudit records a transaction event in the audit log.
func (r *Repository) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, user_id, record_ids, group_id, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Action, e.UserID, strings.Join(e.RecordIDs, ","), nullable(e.GroupID), e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// CountAudit returns the number of audit rows recorded for a user.
func (r *Repository) CountAudit(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return n, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		dateStr    string
		instID     sql.NullString
		instCur    sql.NullInt64
		instTot    sql.NullInt64
		recurringS sql.NullString
		cardName   sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &dateStr,
		&t.Type, &instID, &instCur, &instTot, &recurringS, &cardName)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	if instID.Valid {
		t.Installment = &core.InstallmentDetails{
			InstallmentID: instID.String,
			Current:       int(instCur.Int64),
			Total:         int(instTot.Int64),
		}
	}
	t.RecurringID = recurringS.String
	t.CardName = cardName.String
	return t, nil
}

func insertArgs(t core.Transaction) []any {
	var instID, recurringID, cardName any
	var instCur, instTot any
	if t.Installment != nil {
		instID = t.Installment.InstallmentID
		instCur = t.Installment.Current
		instTot = t.Installment.Total
	}
	recurringID = nullable(t.RecurringID)
	cardName = nullable(t.CardName)
	return []any{
		t.ID, t.UserID, t.Description, t.Amount.Cents, t.Date.String(), string(t.Type),
		instID, instCur, instTot, recurringID, cardName,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
