package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the ledger events queue.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventOccupancyChanged   = "occupancy.changed"
	EventVacancyAlert       = "vacancy.alert"
)

// LedgerEvent is the message published after a successful table save.
// Consumers reload the table themselves; the event carries only enough to
// know what changed.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	Apartment string    `json:"apartment,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind, apartment, amount, details string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		Apartment: apartment,
		Amount:    amount,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
