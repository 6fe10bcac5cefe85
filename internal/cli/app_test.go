package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/storage"
)

// fakeStore is an in-memory storage.Store for dispatcher tests.
type fakeStore struct {
	expenses []core.Expense
	nextID   int64
	failWith error
}

func (f *fakeStore) sorted() []core.Expense {
	out := make([]core.Expense, len(f.expenses))
	copy(out, f.expenses)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedOn.Equal(out[j].CreatedOn.Time) {
			return out[i].CreatedOn.Before(out[j].CreatedOn.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeStore) List(ctx context.Context) ([]core.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.sorted(), nil
}

func (f *fakeStore) Search(ctx context.Context, term string) ([]core.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []core.Expense
	for _, e := range f.sorted() {
		if strings.Contains(strings.ToLower(e.Memo), strings.ToLower(term)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, amount core.Money, memo string, createdOn core.Date) (core.Expense, error) {
	if f.failWith != nil {
		return core.Expense{}, f.failWith
	}
	f.nextID++
	e := core.Expense{ID: f.nextID, Amount: amount, Memo: memo, CreatedOn: createdOn}
	f.expenses = append(f.expenses, e)
	return e, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) (core.Expense, error) {
	if f.failWith != nil {
		return core.Expense{}, f.failWith
	}
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return e, nil
		}
	}
	return core.Expense{}, storage.ErrNoExpense
}

func (f *fakeStore) DeleteAll(ctx context.Context) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	n := int64(len(f.expenses))
	f.expenses = nil
	return n, nil
}

func (f *fakeStore) Close() error { return nil }

// scriptedConfirmer answers every prompt with a fixed response.
type scriptedConfirmer struct {
	answer   bool
	prompted string
}

func (c *scriptedConfirmer) Confirm(prompt string) bool {
	c.prompted = prompt
	return c.answer
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []amqp.ExpenseEvent
	err    error
}

func (p *recordingPublisher) PublishExpenseEvent(ctx context.Context, ev amqp.ExpenseEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	store   *fakeStore
	confirm *scriptedConfirmer
	events  *recordingPublisher
	out     *bytes.Buffer
	app     *App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   &fakeStore{},
		confirm: &scriptedConfirmer{answer: true},
		events:  &recordingPublisher{},
		out:     &bytes.Buffer{},
	}
	f.app = NewApp(f.store, f.events, f.confirm, f.out)
	return f
}

func (f *fixture) run(t *testing.T, args ...string) int {
	t.Helper()
	return f.app.Run(context.Background(), args)
}

func TestHelpPrintsUsage(t *testing.T) {
	for _, args := range [][]string{{"help"}, {}, {"bogus"}} {
		f := newFixture(t)
		if code := f.run(t, args...); code != 0 {
			t.Fatalf("Run(%v) = %d, want 0", args, code)
		}
		if f.out.String() != usageText {
			t.Errorf("Run(%v) output = %q, want usage text", args, f.out.String())
		}
	}
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "list"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "There are no expenses.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestListSingleExpenseHasNoTotal(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee", "2026-08-27")
	f.out.Reset()

	f.run(t, "list")
	want := "There is 1 expense.\n" +
		"  1 | 2026-08-27 |         5.00 | coffee\n"
	if got := f.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestListTwoExpensesWithTotal(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee", "2026-08-27")
	f.run(t, "add", "12.50", "lunch", "2026-08-28")
	f.out.Reset()

	f.run(t, "list")
	want := "There are 2 expenses.\n" +
		"  1 | 2026-08-27 |         5.00 | coffee\n" +
		"  2 | 2026-08-28 |        12.50 | lunch\n" +
		strings.Repeat("-", 50) + "\n" +
		"Total" + fmt.Sprintf("%30s", "17.50") + strings.Repeat(" ", 14) + "\n"
	if got := f.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestListOrdersByDateNotInsertion(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "12.50", "lunch", "2026-08-28")
	f.run(t, "add", "5.00", "coffee", "2026-08-27")
	f.out.Reset()

	f.run(t, "list")
	lines := strings.Split(strings.TrimRight(f.out.String(), "\n"), "\n")
	if !strings.Contains(lines[1], "coffee") || !strings.Contains(lines[2], "lunch") {
		t.Errorf("rows not in date order:\n%s", f.out.String())
	}
}

func TestAddMissingOperands(t *testing.T) {
	for _, args := range [][]string{{"add"}, {"add", "5.00"}} {
		f := newFixture(t)
		if code := f.run(t, args...); code != 0 {
			t.Fatalf("Run(%v) = %d, want 0", args, code)
		}
		if got := f.out.String(); got != "You must provide an amount and memo.\n" {
			t.Errorf("Run(%v) output = %q", args, got)
		}
		if len(f.store.expenses) != 0 {
			t.Errorf("Run(%v) inserted a row", args)
		}
	}
}

func TestAddInvalidAmount(t *testing.T) {
	for _, amount := range []string{"abc", "-5", "0"} {
		f := newFixture(t)
		if code := f.run(t, "add", amount, "coffee"); code != 0 {
			t.Fatalf("add %q exit code = %d, want 0", amount, code)
		}
		want := fmt.Sprintf("'%s' is not a valid amount.\n", amount)
		if got := f.out.String(); got != want {
			t.Errorf("add %q output = %q, want %q", amount, got, want)
		}
		if len(f.store.expenses) != 0 {
			t.Errorf("add %q inserted a row", amount)
		}
	}
}

func TestAddInvalidDate(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "add", "5.00", "coffee", "tomorrow"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "'tomorrow' is not a valid date (expected YYYY-MM-DD).\n" {
		t.Errorf("output = %q", got)
	}
	if len(f.store.expenses) != 0 {
		t.Error("invalid date inserted a row")
	}
}

func TestAddDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee")
	if len(f.store.expenses) != 1 {
		t.Fatalf("expected 1 row, got %d", len(f.store.expenses))
	}
	if got := f.store.expenses[0].CreatedOn.String(); got != core.Today().String() {
		t.Errorf("created_on = %s, want today", got)
	}
}

func TestAddPublishesEvent(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee", "2026-08-27")
	if len(f.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(f.events.events))
	}
	ev := f.events.events[0]
	if ev.Kind != amqp.EventAdded || ev.AmountCents != 500 || ev.Memo != "coffee" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	if code := f.run(t, "add", "5.00", "coffee"); code != 0 {
		t.Errorf("exit code = %d, want 0 despite publish failure", code)
	}
	if len(f.store.expenses) != 1 {
		t.Error("expense not saved")
	}
}

func TestNilPublisherIsSkipped(t *testing.T) {
	store := &fakeStore{}
	app := NewApp(store, nil, &scriptedConfirmer{answer: true}, &bytes.Buffer{})
	if code := app.Run(context.Background(), []string{"add", "5.00", "coffee"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestSearchMissingTerm(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "search"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "You must provide a search term\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSearchFiltersCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "Coffee beans", "2026-08-27")
	f.run(t, "add", "12.50", "lunch", "2026-08-28")
	f.out.Reset()

	f.run(t, "search", "COFFEE")
	want := "There is 1 expense.\n" +
		"  1 | 2026-08-27 |         5.00 | Coffee beans\n"
	if got := f.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDeleteMissingID(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "delete"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "You must provide an expense id.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "delete", "9999"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "There is no expense with the id '#9999'.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestDeleteNonNumericID(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "delete", "abc"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "There is no expense with the id '#abc'.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestDeletePrintsDeletedRow(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee", "2026-08-27")
	f.run(t, "add", "12.50", "lunch", "2026-08-28")
	f.out.Reset()

	if code := f.run(t, "delete", "1"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	want := "The following expense has been deleted:\n" +
		"  1 | 2026-08-27 |         5.00 | coffee\n"
	if got := f.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if len(f.store.expenses) != 1 {
		t.Errorf("store has %d rows after delete, want 1", len(f.store.expenses))
	}
	if last := f.events.events[len(f.events.events)-1]; last.Kind != amqp.EventDeleted {
		t.Errorf("last event kind = %q, want deleted", last.Kind)
	}
}

func TestClearConfirmed(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee")
	f.out.Reset()

	if code := f.run(t, "clear"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if f.confirm.prompted != "This will remove all expenses. Are you sure? (y/n) " {
		t.Errorf("prompt = %q", f.confirm.prompted)
	}
	if got := f.out.String(); got != "All expenses have been deleted.\n" {
		t.Errorf("output = %q", got)
	}
	if len(f.store.expenses) != 0 {
		t.Error("expenses remain after confirmed clear")
	}
	if last := f.events.events[len(f.events.events)-1]; last.Kind != amqp.EventCleared {
		t.Errorf("last event kind = %q, want cleared", last.Kind)
	}
}

func TestClearDeclinedAbortsSilently(t *testing.T) {
	f := newFixture(t)
	f.run(t, "add", "5.00", "coffee")
	f.out.Reset()
	f.confirm.answer = false
	published := len(f.events.events)

	if code := f.run(t, "clear"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := f.out.String(); got != "" {
		t.Errorf("declined clear wrote %q, want nothing", got)
	}
	if len(f.store.expenses) != 1 {
		t.Error("declined clear removed expenses")
	}
	if len(f.events.events) != published {
		t.Error("declined clear published an event")
	}
}

func TestStoreFailureIsFatal(t *testing.T) {
	for _, args := range [][]string{
		{"list"},
		{"add", "5.00", "coffee"},
		{"search", "coffee"},
		{"delete", "1"},
		{"clear"},
	} {
		f := newFixture(t)
		f.store.failWith = errors.New("connection refused")
		if code := f.run(t, args...); code != 1 {
			t.Errorf("Run(%v) with failing store = %d, want 1", args, code)
		}
	}
}
