// Package worker hosts the background consumer of the transaction event
// stream.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucasamarante27/my-contabil/internal/amqp"
	"github.com/lucasamarante27/my-contabil/internal/store/sqlite"
)

// AuditLog is the sink audit entries land in.
type AuditLog interface {
	AppendAudit(ctx context.Context, e sqlite.AuditEntry) error
}

// AuditWorker turns transaction events into append-only audit rows.
type AuditWorker struct {
	log AuditLog
}

func NewAuditWorker(log AuditLog) *AuditWorker {
	return &AuditWorker{log: log}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", event.Action,
		"user_id", event.UserID,
		"records", len(event.RecordIDs))

	entry := sqlite.AuditEntry{
		Action:     event.Action,
		UserID:     event.UserID,
		RecordIDs:  event.RecordIDs,
		GroupID:    event.GroupID,
		OccurredAt: event.Timestamp,
	}
	if err := w.log.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}
