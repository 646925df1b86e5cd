// Package xamlnode models the write-event stream between producers and the
// object writer: a node type, a Reader that yields nodes, a Writer that
// consumes them, and helpers to record, replay, transfer and print streams.
package xamlnode

import (
	"fmt"

	"github.com/vk/objgraph/internal/schema"
)

// NodeType identifies a write event.
type NodeType uint8

const (
	None NodeType = iota
	StartObject
	GetObject
	EndObject
	StartMember
	EndMember
	Value
	NamespaceDeclaration
)

func (t NodeType) String() string {
	switch t {
	case None:
		return "None"
	case StartObject:
		return "StartObject"
	case GetObject:
		return "GetObject"
	case EndObject:
		return "EndObject"
	case StartMember:
		return "StartMember"
	case EndMember:
		return "EndMember"
	case Value:
		return "Value"
	case NamespaceDeclaration:
		return "NamespaceDeclaration"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// Position locates a node in its source document. The zero value means
// unknown.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (p Position) IsValid() bool { return p.Line > 0 || p.Offset > 0 }

func (p Position) String() string {
	var loc string
	switch {
	case p.Line > 0:
		loc = fmt.Sprintf("%d:%d", p.Line, p.Column)
	case p.Offset > 0:
		loc = fmt.Sprintf("offset %d", p.Offset)
	default:
		loc = "-"
	}
	if p.Filename != "" {
		return p.Filename + ":" + loc
	}
	return loc
}

// Node is one write event. Only the payload field matching Type is set.
type Node struct {
	Type      NodeType
	XamlType  *schema.Type
	Member    *schema.Member
	Value     any
	Namespace schema.NamespaceDeclaration
	Pos       Position
}

func (n Node) String() string {
	switch n.Type {
	case StartObject:
		return fmt.Sprintf("%s %s", n.Type, n.XamlType.Name())
	case StartMember:
		return fmt.Sprintf("%s %s", n.Type, n.Member)
	case Value:
		return fmt.Sprintf("%s %#v", n.Type, n.Value)
	case NamespaceDeclaration:
		return fmt.Sprintf("%s %s=%s", n.Type, n.Namespace.Prefix, n.Namespace.Namespace)
	default:
		return n.Type.String()
	}
}

// Reader yields nodes in document order and returns io.EOF after the last
// one.
type Reader interface {
	Read() (Node, error)
}

// Writer consumes write events.
type Writer interface {
	WriteStartObject(t *schema.Type) error
	WriteGetObject() error
	WriteStartMember(m *schema.Member) error
	WriteValue(v any) error
	WriteEndMember() error
	WriteEndObject() error
	WriteNamespace(decl schema.NamespaceDeclaration) error
}

// Apply delivers a single node to w.
func Apply(w Writer, n Node) error {
	switch n.Type {
	case StartObject:
		return w.WriteStartObject(n.XamlType)
	case GetObject:
		return w.WriteGetObject()
	case EndObject:
		return w.WriteEndObject()
	case StartMember:
		return w.WriteStartMember(n.Member)
	case EndMember:
		return w.WriteEndMember()
	case Value:
		return w.WriteValue(n.Value)
	case NamespaceDeclaration:
		return w.WriteNamespace(n.Namespace)
	default:
		return fmt.Errorf("cannot apply node of type %s", n.Type)
	}
}
