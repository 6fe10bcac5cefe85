// Package storage owns the expenses schema and all query execution.
package storage

import (
	"context"
	"errors"
	"fmt"

	"expenses/internal/config"
	"expenses/internal/core"
)

// ErrNoExpense is returned by Delete when no row matches the given id.
var ErrNoExpense = errors.New("no expense with that id")

// Store is the persistence port for expenses. Reads never mutate; Delete
// returns the removed row so callers can render it.
type Store interface {
	// List returns all expenses ordered by created_on, then id.
	List(ctx context.Context) ([]core.Expense, error)
	// Search returns expenses whose memo contains term as a
	// case-insensitive substring, in List order.
	Search(ctx context.Context, term string) ([]core.Expense, error)
	// Insert records a new expense and returns it with its assigned id.
	Insert(ctx context.Context, amount core.Money, memo string, createdOn core.Date) (core.Expense, error)
	// Delete removes the expense with the given id and returns it.
	// Returns ErrNoExpense when no row matches.
	Delete(ctx context.Context, id int64) (core.Expense, error)
	// DeleteAll removes every expense and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)

	Close() error
}

// Open constructs the store selected by the configuration. The returned
// store has its schema ensured and its connection verified.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLiteDBPath)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend)
	}
}
