package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"expenses/internal/core"
)

func TestRenderCount(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "There are no expenses.\n"},
		{1, "There is 1 expense.\n"},
		{2, "There are 2 expenses.\n"},
		{42, "There are 42 expenses.\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		renderCount(&buf, tc.n)
		if got := buf.String(); got != tc.want {
			t.Errorf("renderCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatRowWidths(t *testing.T) {
	e := core.Expense{
		ID:        1,
		Amount:    core.Money{Cents: 500},
		Memo:      "coffee",
		CreatedOn: core.NewDate(2026, 8, 27),
	}
	got := formatRow(e)
	want := "  1 | 2026-08-27 |         5.00 | coffee"
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}

	fields := strings.Split(got, " | ")
	if len(fields) != 4 {
		t.Fatalf("row has %d fields, want 4", len(fields))
	}
	if len(fields[0]) != 3 || len(fields[1]) != 10 || len(fields[2]) != 12 {
		t.Errorf("field widths = %d/%d/%d, want 3/10/12",
			len(fields[0]), len(fields[1]), len(fields[2]))
	}
}

func TestFormatRowWideID(t *testing.T) {
	e := core.Expense{
		ID:        1234,
		Amount:    core.Money{Cents: 99999},
		Memo:      "rent",
		CreatedOn: core.NewDate(2026, 1, 2),
	}
	want := "1234 | 2026-01-02 |       999.99 | rent"
	if got := formatRow(e); got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestRenderTotal(t *testing.T) {
	var buf bytes.Buffer
	renderTotal(&buf, core.Money{Cents: 1750})
	want := strings.Repeat("-", 50) + "\n" +
		"Total" + fmt.Sprintf("%30s", "17.50") + strings.Repeat(" ", 14) + "\n"
	if got := buf.String(); got != want {
		t.Errorf("renderTotal = %q, want %q", got, want)
	}
}

func TestRenderExpensesTotalOnlyAboveOneRow(t *testing.T) {
	one := []core.Expense{
		{ID: 1, Amount: core.Money{Cents: 500}, Memo: "coffee", CreatedOn: core.NewDate(2026, 8, 27)},
	}
	var buf bytes.Buffer
	renderExpenses(&buf, one)
	if strings.Contains(buf.String(), "Total") {
		t.Errorf("single row rendered a total:\n%s", buf.String())
	}

	two := append(one, core.Expense{
		ID: 2, Amount: core.Money{Cents: 1250}, Memo: "lunch", CreatedOn: core.NewDate(2026, 8, 28),
	})
	buf.Reset()
	renderExpenses(&buf, two)
	if !strings.Contains(buf.String(), "Total") {
		t.Errorf("two rows rendered no total:\n%s", buf.String())
	}
}
