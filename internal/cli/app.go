package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/storage"
)

const usageText = `An expense recording system

Commands:

add AMOUNT MEMO [DATE] - record a new expense
clear - delete all expenses
list - list all expenses
delete NUMBER - remove expense with id NUMBER
search QUERY - list expenses with a matching memo field
`

// EventPublisher is satisfied by *amqp.Client. A nil publisher disables
// event mirroring entirely.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev amqp.ExpenseEvent) error
}

// App dispatches CLI verbs to the expense store. All collaborators are
// passed in explicitly so tests can substitute them.
type App struct {
	store   storage.Store
	events  EventPublisher
	confirm Confirmer
	out     io.Writer
}

func NewApp(store storage.Store, events EventPublisher, confirm Confirmer, out io.Writer) *App {
	return &App{
		store:   store,
		events:  events,
		confirm: confirm,
		out:     out,
	}
}

// Run executes one command and returns the process exit code: 1 on any
// store failure, 0 otherwise. User input errors print a plain message and
// still exit 0.
func (a *App) Run(ctx context.Context, args []string) int {
	var (
		verb string
		err  error
	)
	if len(args) > 0 {
		verb = args[0]
	}

	switch verb {
	case "list":
		err = a.runList(ctx)
	case "add":
		err = a.runAdd(ctx, args[1:])
	case "search":
		err = a.runSearch(ctx, args[1:])
	case "delete":
		err = a.runDelete(ctx, args[1:])
	case "clear":
		err = a.runClear(ctx)
	default:
		// "help", no verb, and unknown verbs all print usage.
		fmt.Fprint(a.out, usageText)
		return 0
	}

	if err != nil {
		slog.Error("Command failed", "command", verb, "error", err)
		return 1
	}
	return 0
}

func (a *App) runList(ctx context.Context) error {
	expenses, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	renderExpenses(a.out, expenses)
	return nil
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "You must provide an amount and memo.")
		return nil
	}

	amount, err := core.ParseAmount(args[0])
	if err != nil {
		fmt.Fprintf(a.out, "'%s' is not a valid amount.\n", args[0])
		return nil
	}
	memo := args[1]

	createdOn := core.Today()
	if len(args) > 2 {
		createdOn, err = core.ParseDate(args[2])
		if err != nil {
			fmt.Fprintf(a.out, "'%s' is not a valid date (expected YYYY-MM-DD).\n", args[2])
			return nil
		}
	}

	e, err := a.store.Insert(ctx, amount, memo, createdOn)
	if err != nil {
		return err
	}

	a.publishEvent(ctx, amqp.NewExpenseEvent(amqp.EventAdded, e))
	return nil
}

func (a *App) runSearch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "You must provide a search term")
		return nil
	}

	expenses, err := a.store.Search(ctx, args[0])
	if err != nil {
		return err
	}
	renderExpenses(a.out, expenses)
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "You must provide an expense id.")
		return nil
	}

	id, parseErr := strconv.ParseInt(args[0], 10, 64)
	if parseErr != nil {
		fmt.Fprintf(a.out, "There is no expense with the id '#%s'.\n", args[0])
		return nil
	}

	e, err := a.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNoExpense) {
		fmt.Fprintf(a.out, "There is no expense with the id '#%d'.\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "The following expense has been deleted:")
	fmt.Fprintln(a.out, formatRow(e))

	a.publishEvent(ctx, amqp.NewExpenseEvent(amqp.EventDeleted, e))
	return nil
}

func (a *App) runClear(ctx context.Context) error {
	if !a.confirm.Confirm("This will remove all expenses. Are you sure? (y/n) ") {
		return nil
	}

	n, err := a.store.DeleteAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "All expenses have been deleted.")

	a.publishEvent(ctx, amqp.NewClearedEvent(n))
	return nil
}

// publishEvent mirrors a mutation to AMQP. Publish failures are logged
// and never fail the command; the local write already succeeded.
func (a *App) publishEvent(ctx context.Context, ev amqp.ExpenseEvent) {
	if a.events == nil {
		return
	}
	if err := a.events.PublishExpenseEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"kind", ev.Kind,
			"id", ev.ID,
			"error", err)
	}
}
