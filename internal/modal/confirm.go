package modal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer asks yes/no questions on the terminal. Anything other
// than an explicit yes is treated as a decline.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

var _ Confirmer = (*TerminalConfirmer)(nil)

// NewTerminalConfirmer creates a confirmer reading from in and prompting on out
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:  in,
		out: out,
	}
}

// Confirm prints the prompt and reads a single line answer
func (c *TerminalConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
