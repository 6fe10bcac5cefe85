// Package worker mirrors expense events into an external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/sheets"
)

// Mirror consumes expense events and appends added expenses to a sheet.
// Deletes and clears are acknowledged but not mirrored; the sheet is an
// append-only journal.
type Mirror struct {
	appender sheets.ExpenseAppender
}

func NewMirror(appender sheets.ExpenseAppender) *Mirror {
	return &Mirror{appender: appender}
}

// HandleEvent processes a single expense event. Errors cause the message
// to be requeued by the consumer.
func (m *Mirror) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	switch ev.Kind {
	case amqp.EventAdded:
		return m.mirrorAdded(ctx, ev)
	case amqp.EventDeleted:
		slog.InfoContext(ctx, "Expense deleted upstream, journal keeps the row", "id", ev.ID)
		return nil
	case amqp.EventCleared:
		slog.InfoContext(ctx, "Expenses cleared upstream, journal keeps its rows", "removed", ev.ID)
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func (m *Mirror) mirrorAdded(ctx context.Context, ev *amqp.ExpenseEvent) error {
	createdOn, err := core.ParseDate(ev.CreatedOn)
	if err != nil {
		return fmt.Errorf("parse event date %q: %w", ev.CreatedOn, err)
	}

	e := core.Expense{
		ID:        ev.ID,
		Amount:    core.Money{Cents: ev.AmountCents},
		Memo:      ev.Memo,
		CreatedOn: createdOn,
	}

	ref, err := m.appender.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append expense to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Expense mirrored to sheet", "id", ev.ID, "row_ref", ref)
	return nil
}
