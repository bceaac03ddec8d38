package amqp

import (
	"encoding/json"
	"time"
)

// Event actions carried on the transaction event stream.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent describes one ledger mutation. It carries IDs only;
// consumers that need the full records fetch them from the store.
type TransactionEvent struct {
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	RecordIDs []string  `json:"recordIds"`
	GroupID   string    `json:"groupId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action, userID string, recordIDs []string, groupID string) *TransactionEvent {
	return &TransactionEvent{
		Action:    action,
		UserID:    userID,
		RecordIDs: recordIDs,
		GroupID:   groupID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
