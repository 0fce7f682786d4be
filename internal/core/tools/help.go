package tools

import (
	"context"
	"fmt"
	"io"
)

// Help prints every tool of its set.
type Help struct {
	set *Set
}

func NewHelp(set *Set) *Help { return &Help{set: set} }

func (h *Help) Name() string { return "help" }

func (h *Help) Description() string { return "List all available commands" }

func (h *Help) Execute(_ context.Context, _ []string, out io.Writer) error {
	names := h.set.Names()
	if len(names) == 0 {
		_, err := fmt.Fprintln(out, "No available commands!")
		return err
	}
	if _, err := fmt.Fprintln(out, "Available commands:"); err != nil {
		return err
	}
	for _, name := range names {
		t, _ := h.set.Lookup(name)
		if _, err := fmt.Fprintf(out, "%s %s\n", name, t.Description()); err != nil {
			return err
		}
	}
	return nil
}
