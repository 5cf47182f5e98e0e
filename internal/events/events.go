// Package events describes the notifications emitted when a ledger changes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// TopicEntryRecorded is the default topic for EntryRecorded events.
const TopicEntryRecorded = "entry_recorded"

// EntryRecorded is published after a record is appended to a ledger.
type EntryRecorded struct {
	ID         uuid.UUID     `json:"id"`
	RecordID   uuid.UUID     `json:"record_id"`
	Kind       ledger.Kind   `json:"kind"`
	Status     ledger.Status `json:"status,omitempty"`
	Amount     string        `json:"amount,omitempty"`
	Currency   string        `json:"currency,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Publisher delivers events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, ev EntryRecorded) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, EntryRecorded) error { return nil }

// NewEntryRecorded describes rec as an event.
func NewEntryRecorded(rec ledger.Record, at time.Time) EntryRecorded {
	ev := EntryRecorded{ID: uuid.New(), RecordID: rec.RecordID(), Kind: rec.Kind(), RecordedAt: at.UTC()}
	if tx, ok := rec.(ledger.Transaction); ok {
		amt, cur := tx.Money()
		ev.Amount, ev.Currency, ev.Status = amt.String(), cur, tx.EntryStatus()
	}
	return ev
}
