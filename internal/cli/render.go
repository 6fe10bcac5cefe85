package cli

import (
	"fmt"
	"io"
	"strings"

	"expenses/internal/core"
)

// renderExpenses prints the count banner, one line per expense, and the
// total when more than one row is shown. The format is part of the tool's
// compatibility contract, down to the field widths.
func renderExpenses(w io.Writer, expenses []core.Expense) {
	renderCount(w, len(expenses))
	for _, e := range expenses {
		fmt.Fprintln(w, formatRow(e))
	}
	if len(expenses) > 1 {
		renderTotal(w, core.Sum(expenses))
	}
}

func renderCount(w io.Writer, n int) {
	switch n {
	case 0:
		fmt.Fprintln(w, "There are no expenses.")
	case 1:
		fmt.Fprintln(w, "There is 1 expense.")
	default:
		fmt.Fprintf(w, "There are %d expenses.\n", n)
	}
}

func formatRow(e core.Expense) string {
	return fmt.Sprintf("%3d | %10s | %12s | %s",
		e.ID, e.CreatedOn.String(), e.Amount.String(), e.Memo)
}

func renderTotal(w io.Writer, total core.Money) {
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Total%30s%s\n", total.String(), strings.Repeat(" ", 14))
}
