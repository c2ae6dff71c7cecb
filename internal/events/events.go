// Package events carries ledger change notifications to interested subscribers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"asrama/internal/models"
)

// Action names the mutation that produced an event.
type Action string

const (
	ActionCreated Action = "created"
	ActionDeleted Action = "deleted"
)

// EventTypeLedgerChanged is the type field of every LedgerEvent.
const EventTypeLedgerChanged = "ledger_changed"

// LedgerEvent tells subscribers that the ledger changed and should be refetched.
type LedgerEvent struct {
	Type          string                 `json:"type"`
	Action        Action                 `json:"action"`
	TransactionID string                 `json:"id"`
	Tipe          models.TransactionType `json:"tipe"`
	Jumlah        int64                  `json:"jumlah"`
	Timestamp     time.Time              `json:"timestamp"`
}

// NewLedgerEvent builds the event for a mutation of tx.
func NewLedgerEvent(action Action, tx *models.Transaction) LedgerEvent {
	return LedgerEvent{
		Type:          EventTypeLedgerChanged,
		Action:        action,
		TransactionID: tx.ID,
		Tipe:          tx.Tipe,
		Jumlah:        tx.Jumlah,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}

// Fanout publishes every event to each of its publishers.
type Fanout []Publisher

// Publish delivers to all publishers and joins their errors.
func (f Fanout) Publish(ctx context.Context, event LedgerEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, LedgerEvent) error { return nil }
