// Package hclreader turns an HCL document into object-writer events.
//
// A document holds exactly one top-level block whose type is the name of the
// root type; an optional label becomes the x:Name of the root object. Inside
// a block, attributes are members and nested blocks are objects:
//
//	Shelf "fiction" {
//	  Labels = { genre = "sf" }
//	  Books "Book" {
//	    Title = "Dune"
//	  }
//	}
//
// A nested block is written as `Member "Type" "name" { ... }`; both labels
// are optional and the member's own type is used when the type label is
// missing. Under an object that is itself a collection, a block named after
// a type is written into x:Items. Attributes named x_name, x_key, x_class,
// x_factory, x_arguments and x_init map to the directives.
package hclreader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/objgraph/internal/convert"
	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/schema"
	"github.com/vk/objgraph/internal/xamlnode"
	"github.com/zclconf/go-cty/cty"
)

var directiveAttributes = map[string]*schema.Member{
	"x_name":      schema.Name,
	"x_key":       schema.Key,
	"x_class":     schema.Class,
	"x_factory":   schema.FactoryMethod,
	"x_arguments": schema.Arguments,
	"x_init":      schema.Initialization,
}

// Option configures Parse.
type Option func(*reader)

// WithIgnoreUnknownMembers makes unknown attributes and blocks a logged skip
// instead of an error.
func WithIgnoreUnknownMembers(ignore bool) Option {
	return func(r *reader) { r.ignoreUnknown = ignore }
}

type reader struct {
	sc            *schema.Context
	logger        *slog.Logger
	ignoreUnknown bool
	out           *xamlnode.List
}

// Parse parses src and returns its events, resolving type names against sc.
func Parse(ctx context.Context, src []byte, filename string, sc *schema.Context, opts ...Option) (*xamlnode.List, error) {
	r := &reader{
		sc:     sc,
		logger: ctxlog.FromContext(ctx),
		out:    &xamlnode.List{},
	}
	for _, opt := range opts {
		opt(r)
	}

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}
	if len(body.Attributes) > 0 || len(body.Blocks) != 1 {
		return nil, fmt.Errorf("%s: a document must hold exactly one top-level block and no attributes", filename)
	}

	root := body.Blocks[0]
	if len(root.Labels) > 1 {
		return nil, errorf(root.LabelRanges[1], "the root block takes at most one label")
	}
	typ, err := r.lookupType(root.Type, root.TypeRange)
	if err != nil {
		return nil, err
	}
	r.emit(xamlnode.Node{
		Type:      xamlnode.NamespaceDeclaration,
		Namespace: schema.NamespaceDeclaration{Namespace: typ.Namespace()},
	}, root.TypeRange)

	var name string
	if len(root.Labels) == 1 {
		name = root.Labels[0]
	}
	if err := r.object(typ, root, name); err != nil {
		return nil, err
	}
	r.logger.Debug("Parsed HCL document.", "file", filename, "root", typ.Name(), "nodes", r.out.Len())
	return r.out, nil
}

func (r *reader) emit(n xamlnode.Node, rng hcl.Range) {
	n.Pos = xamlnode.Position{
		Filename: rng.Filename,
		Line:     rng.Start.Line,
		Column:   rng.Start.Column,
		Offset:   rng.Start.Byte,
	}
	r.out.Add(n)
}

func (r *reader) object(typ *schema.Type, b *hclsyntax.Block, name string) error {
	r.emit(xamlnode.Node{Type: xamlnode.StartObject, XamlType: typ}, b.TypeRange)
	if name != "" {
		r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: schema.Name}, b.TypeRange)
		r.emit(xamlnode.Node{Type: xamlnode.Value, Value: name}, b.TypeRange)
		r.emit(xamlnode.Node{Type: xamlnode.EndMember}, b.TypeRange)
	}
	if err := r.body(typ, b.Body); err != nil {
		return err
	}
	r.emit(xamlnode.Node{Type: xamlnode.EndObject}, b.CloseBraceRange)
	return nil
}

// body emits attributes and blocks in source order.
func (r *reader) body(typ *schema.Type, body *hclsyntax.Body) error {
	type entry struct {
		start int
		attr  *hclsyntax.Attribute
		block *hclsyntax.Block
	}
	entries := make([]entry, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		entries = append(entries, entry{start: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		entries = append(entries, entry{start: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	for _, e := range entries {
		var err error
		if e.attr != nil {
			err = r.attribute(typ, e.attr)
		} else {
			err = r.block(typ, e.block)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) attribute(typ *schema.Type, attr *hclsyntax.Attribute) error {
	m, ok := directiveAttributes[attr.Name]
	if !ok {
		m, ok = typ.Member(attr.Name)
	}
	if !ok {
		return r.unknown(typ, attr.Name, attr.NameRange)
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("failed to evaluate attribute '%s': %w", attr.Name, diags)
	}
	values, err := splitValue(m, val)
	if err != nil {
		return errorf(attr.Expr.Range(), "attribute '%s': %v", attr.Name, err)
	}

	r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: m}, attr.NameRange)
	for _, v := range values {
		r.emit(xamlnode.Node{Type: xamlnode.Value, Value: v}, attr.Expr.Range())
	}
	r.emit(xamlnode.Node{Type: xamlnode.EndMember}, attr.SrcRange)
	return nil
}

// splitValue lowers val to Go values. Sequences written to collection
// members and x:Arguments become one value per element; objects written to
// dictionary members become one keyed value per attribute.
func splitValue(m *schema.Member, val cty.Value) ([]any, error) {
	if val.IsNull() || !val.IsKnown() {
		return []any{nil}, nil
	}
	ty := val.Type()
	sequence := ty.IsTupleType() || ty.IsListType() || ty.IsSetType()

	switch {
	case m.IsDictionary() && (ty.IsObjectType() || ty.IsMapType()):
		attrs := val.AsValueMap()
		values := make([]any, 0, len(attrs))
		for _, k := range convert.SortedKeys(val) {
			native, err := convert.ToNative(attrs[k])
			if err != nil {
				return nil, err
			}
			values = append(values, schema.KeyedValue{Key: k, Value: native})
		}
		return values, nil

	case sequence && (m == schema.Arguments || (m.IsCollection() && !m.IsDictionary())):
		values := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := convert.ToNative(ev)
			if err != nil {
				return nil, err
			}
			values = append(values, native)
		}
		return values, nil
	}

	native, err := convert.ToNative(val)
	if err != nil {
		return nil, err
	}
	return []any{native}, nil
}

func (r *reader) block(typ *schema.Type, b *hclsyntax.Block) error {
	if m, ok := typ.Member(b.Type); ok {
		elemType, name, err := r.blockType(m, b)
		if err != nil {
			return err
		}
		r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: m}, b.TypeRange)
		if err := r.object(elemType, b, name); err != nil {
			return err
		}
		r.emit(xamlnode.Node{Type: xamlnode.EndMember}, b.CloseBraceRange)
		return nil
	}

	if !typ.IsCollection() && !typ.IsDictionary() {
		return r.unknown(typ, b.Type, b.TypeRange)
	}
	itemType, err := r.lookupType(b.Type, b.TypeRange)
	if err != nil {
		return err
	}
	if len(b.Labels) > 1 {
		return errorf(b.LabelRanges[1], "an item block takes at most one label")
	}
	var name string
	if len(b.Labels) == 1 {
		name = b.Labels[0]
	}
	r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: schema.Items}, b.TypeRange)
	if err := r.object(itemType, b, name); err != nil {
		return err
	}
	r.emit(xamlnode.Node{Type: xamlnode.EndMember}, b.CloseBraceRange)
	return nil
}

// blockType resolves the type and name labels of a member block. Without a
// type label the member's type, or its item type for collections, is used.
func (r *reader) blockType(m *schema.Member, b *hclsyntax.Block) (*schema.Type, string, error) {
	switch len(b.Labels) {
	case 0:
		t := m.Type()
		if m.IsCollection() {
			t = t.ItemType()
		}
		if t == nil {
			return nil, "", errorf(b.TypeRange, "block for member '%s' needs a type label", m.Name())
		}
		return t, "", nil
	case 1, 2:
		t, err := r.lookupType(b.Labels[0], b.LabelRanges[0])
		if err != nil {
			return nil, "", err
		}
		var name string
		if len(b.Labels) == 2 {
			name = b.Labels[1]
		}
		return t, name, nil
	default:
		return nil, "", errorf(b.LabelRanges[2], "a member block takes at most a type and a name label")
	}
}

func (r *reader) lookupType(name string, rng hcl.Range) (*schema.Type, error) {
	t, err := r.sc.Lookup(name)
	if err != nil {
		return nil, errorf(rng, "%v", err)
	}
	return t, nil
}

func (r *reader) unknown(typ *schema.Type, name string, rng hcl.Range) error {
	if r.ignoreUnknown {
		r.logger.Debug("Skipped unknown member.", "type", typ.Name(), "member", name, "range", rng.String())
		return nil
	}
	return errorf(rng, "type '%s' has no member '%s'", typ.Name(), name)
}

func errorf(rng hcl.Range, format string, args ...any) error {
	return fmt.Errorf("%s: %s", rng, fmt.Sprintf(format, args...))
}
