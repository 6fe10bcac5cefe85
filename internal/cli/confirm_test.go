package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalConfirmer(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"y", true}, // EOF without newline still counts
		{" y \n", true},
		{"n\n", false},
		{"yes\n", false},
		{"Y\n", false}, // only the exact answer confirms
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		c := TerminalConfirmer{In: strings.NewReader(tc.input), Out: &out}
		if got := c.Confirm("Are you sure? (y/n) "); got != tc.want {
			t.Errorf("Confirm with input %q = %v, want %v", tc.input, got, tc.want)
		}
		if out.String() != "Are you sure? (y/n) " {
			t.Errorf("prompt written = %q", out.String())
		}
	}
}
