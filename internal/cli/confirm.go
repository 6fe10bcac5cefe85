package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer answers a yes/no question before a destructive action. Tests
// substitute a scripted implementation to avoid real terminal I/O.
type Confirmer interface {
	Confirm(prompt string) bool
}

// TerminalConfirmer prompts on Out and reads one line from In. Only the
// exact answer "y" confirms; anything else, including a read failure,
// declines.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c TerminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprint(c.Out, prompt)
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "y"
}
