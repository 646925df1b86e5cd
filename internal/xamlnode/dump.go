package xamlnode

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// NameCounter hands out labels for anonymous objects, numbered per prefix.
// It is an explicit value so that each consumer numbers independently.
type NameCounter struct {
	counts map[string]int
}

func NewNameCounter() *NameCounter {
	return &NameCounter{counts: make(map[string]int)}
}

// Next returns "_<prefix><n>" with n starting at 1 for each prefix.
func (c *NameCounter) Next(prefix string) string {
	c.counts[prefix]++
	return fmt.Sprintf("_%s%d", prefix, c.counts[prefix])
}

// Dump prints the nodes of r as an indented trace, one node per line.
// Objects are labelled with a NameCounter.
func Dump(w io.Writer, r Reader) error {
	names := NewNameCounter()
	depth := 0
	for {
		n, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if n.Type == EndObject || n.Type == EndMember {
			depth--
		}
		line := n.String()
		if n.Type == StartObject {
			line += " " + names.Next(n.XamlType.Name())
		}
		if n.Pos.IsValid() {
			line = fmt.Sprintf("%-48s @%s", line, n.Pos)
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", max(depth, 0)), line); err != nil {
			return err
		}
		if n.Type == StartObject || n.Type == GetObject || n.Type == StartMember {
			depth++
		}
	}
}
