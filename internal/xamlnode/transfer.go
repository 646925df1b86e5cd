package xamlnode

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// NodeError is a writer failure annotated with the node that caused it.
type NodeError struct {
	Node Node
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Node.Pos, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Transfer pumps every node of r into w. It stops at the first error and
// checks ctx between nodes.
func Transfer(ctx context.Context, r Reader, w Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := Apply(w, n); err != nil {
			return &NodeError{Node: n, Err: err}
		}
	}
}
