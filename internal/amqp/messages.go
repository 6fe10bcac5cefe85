package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expenses/internal/core"
)

// EventKind identifies the mutation an ExpenseEvent describes.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventDeleted EventKind = "deleted"
	EventCleared EventKind = "cleared"
)

// ExpenseEvent is published after every successful mutation so downstream
// consumers (the sheet mirror worker) can replay it. Cleared events carry
// no expense payload.
type ExpenseEvent struct {
	Kind        EventKind `json:"kind"`
	ID          int64     `json:"id,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Memo        string    `json:"memo,omitempty"`
	CreatedOn   string    `json:"created_on,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event from a recorded expense.
func NewExpenseEvent(kind EventKind, e core.Expense) ExpenseEvent {
	return ExpenseEvent{
		Kind:        kind,
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Memo:        e.Memo,
		CreatedOn:   e.CreatedOn.String(),
		Timestamp:   time.Now(),
	}
}

// NewClearedEvent builds the event published after a clear.
func NewClearedEvent(removed int64) ExpenseEvent {
	return ExpenseEvent{
		Kind:      EventCleared,
		ID:        removed,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (ev ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// ExpenseEventFromJSON decodes an event and validates its kind.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal expense event: %w", err)
	}
	switch ev.Kind {
	case EventAdded, EventDeleted, EventCleared:
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return &ev, nil
}
