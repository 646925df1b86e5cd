package xamlnode

import (
	"io"

	"github.com/vk/objgraph/internal/schema"
)

// List is an in-memory node stream. As a Writer it records the events it
// receives; as a Reader it replays them from the start.
type List struct {
	nodes []Node
	next  int

	// Pos is stamped on every recorded node.
	Pos Position
}

// NewList returns a list holding nodes.
func NewList(nodes ...Node) *List {
	return &List{nodes: nodes}
}

// Nodes returns the recorded nodes.
func (l *List) Nodes() []Node { return l.nodes }

func (l *List) Len() int { return len(l.nodes) }

// Add appends n as is.
func (l *List) Add(n Node) { l.nodes = append(l.nodes, n) }

// Rewind makes the next Read start from the first node again.
func (l *List) Rewind() { l.next = 0 }

func (l *List) Read() (Node, error) {
	if l.next >= len(l.nodes) {
		return Node{}, io.EOF
	}
	n := l.nodes[l.next]
	l.next++
	return n, nil
}

func (l *List) record(n Node) error {
	n.Pos = l.Pos
	l.nodes = append(l.nodes, n)
	return nil
}

func (l *List) WriteStartObject(t *schema.Type) error {
	return l.record(Node{Type: StartObject, XamlType: t})
}

func (l *List) WriteGetObject() error { return l.record(Node{Type: GetObject}) }

func (l *List) WriteStartMember(m *schema.Member) error {
	return l.record(Node{Type: StartMember, Member: m})
}

func (l *List) WriteValue(v any) error { return l.record(Node{Type: Value, Value: v}) }

func (l *List) WriteEndMember() error { return l.record(Node{Type: EndMember}) }

func (l *List) WriteEndObject() error { return l.record(Node{Type: EndObject}) }

func (l *List) WriteNamespace(decl schema.NamespaceDeclaration) error {
	return l.record(Node{Type: NamespaceDeclaration, Namespace: decl})
}
