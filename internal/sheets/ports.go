package sheets

import (
	"context"

	"expenses/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// ExpenseAppender appends one expense row to an external sheet and
	// returns a reference to the written row.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)
