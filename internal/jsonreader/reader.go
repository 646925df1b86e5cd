// Package jsonreader turns a JSON document into object-writer events.
//
// Every object names its type in a "$type" key that comes first, after any
// namespace declarations:
//
//	{
//	  "$ns:g": "urn:objgraph:geometry",
//	  "$type": "g:Polygon",
//	  "$name": "triangle",
//	  "Points": ["0,0", "4,0", "0,3"]
//	}
//
// "$ns" declares the default namespace and "$ns:p" binds prefix p. The keys
// $name, $key, $class, $factory, $args, $init and $items map to the
// directives. Arrays written to collection members are items. An object
// written to a dictionary member holds keyed entries unless it starts with
// "$type". Objects whose type is implied by their member may omit "$type".
// Comments and trailing commas are accepted.
package jsonreader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/jsonc"
	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/schema"
	"github.com/vk/objgraph/internal/xamlnode"
)

const (
	typeKey      = "$type"
	namespaceKey = "$ns"
)

var directiveKeys = map[string]*schema.Member{
	"$name":    schema.Name,
	"$key":     schema.Key,
	"$class":   schema.Class,
	"$factory": schema.FactoryMethod,
	"$args":    schema.Arguments,
	"$init":    schema.Initialization,
	"$items":   schema.Items,
}

// Option configures Parse.
type Option func(*reader)

// WithIgnoreUnknownMembers makes unknown keys a logged skip instead of an
// error.
func WithIgnoreUnknownMembers(ignore bool) Option {
	return func(r *reader) { r.ignoreUnknown = ignore }
}

type reader struct {
	sc            *schema.Context
	logger        *slog.Logger
	ignoreUnknown bool

	filename   string
	data       []byte
	lineStarts []int
	dec        *jsontext.Decoder

	scopes [][]schema.NamespaceDeclaration
	out    *xamlnode.List
}

// key is an object key and the offset it starts at.
type key struct {
	name string
	off  int64
}

// Parse parses src and returns its events, resolving type names against sc.
func Parse(ctx context.Context, src []byte, filename string, sc *schema.Context, opts ...Option) (*xamlnode.List, error) {
	// jsonc blanks comments in place, so offsets still match src.
	data := jsonc.ToJSON(src)
	r := &reader{
		sc:         sc,
		logger:     ctxlog.FromContext(ctx),
		filename:   filename,
		data:       data,
		lineStarts: lineStarts(data),
		dec:        jsontext.NewDecoder(bytes.NewReader(data)),
		out:        &xamlnode.List{},
	}
	for _, opt := range opts {
		opt(r)
	}

	off := r.next()
	if r.dec.PeekKind() != '{' {
		if _, err := r.dec.ReadToken(); err != nil {
			return nil, r.syntax(err)
		}
		return nil, r.errorf(off, "a document must be a single JSON object")
	}
	if _, err := r.dec.ReadToken(); err != nil {
		return nil, r.syntax(err)
	}
	if err := r.object(off, nil, nil, nil); err != nil {
		return nil, err
	}

	trailing := r.next()
	if _, err := r.dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, r.syntax(err)
		}
		return nil, r.errorf(trailing, "unexpected data after the root object")
	}
	r.logger.Debug("Parsed JSON document.", "file", filename, "nodes", r.out.Len())
	return r.out, nil
}

// object reads the keys of an object whose opening brace at start has been
// consumed. def is the type used when the object has no $type; dictKey is
// written as x:Key; first is a key the caller has already read.
func (r *reader) object(start int64, def *schema.Type, dictKey *string, first *key) error {
	r.scopes = append(r.scopes, nil)
	defer func() { r.scopes = r.scopes[:len(r.scopes)-1] }()

	k, ok, err := r.resume(first)
	for err == nil && ok && isNamespaceKey(k.name) {
		if err = r.namespace(k); err == nil {
			k, ok, err = r.nextKey()
		}
	}
	if err != nil {
		return err
	}

	typ := def
	if ok && k.name == typeKey {
		if typ, err = r.typeValue(k); err != nil {
			return err
		}
		if k, ok, err = r.nextKey(); err != nil {
			return err
		}
	}
	if typ == nil {
		if ok {
			return r.errorf(k.off, "%s must be the first key of an object, found '%s'", typeKey, k.name)
		}
		return r.errorf(start, "an object needs a %s", typeKey)
	}

	r.emit(xamlnode.Node{Type: xamlnode.StartObject, XamlType: typ}, start)
	if dictKey != nil {
		r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: schema.Key}, start)
		r.emit(xamlnode.Node{Type: xamlnode.Value, Value: *dictKey}, start)
		r.emit(xamlnode.Node{Type: xamlnode.EndMember}, start)
	}
	for ; ok; k, ok, err = r.nextKey() {
		if isNamespaceKey(k.name) || k.name == typeKey {
			return r.errorf(k.off, "'%s' must come before the members of an object", k.name)
		}
		if err := r.field(typ, k); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}
	r.emit(xamlnode.Node{Type: xamlnode.EndObject}, k.off)
	return nil
}

func (r *reader) resume(first *key) (key, bool, error) {
	if first != nil {
		return *first, true, nil
	}
	return r.nextKey()
}

// nextKey reads the next key of the current object. ok is false when the
// closing brace was read instead; k.off is then the offset of that brace.
func (r *reader) nextKey() (k key, ok bool, err error) {
	k.off = r.next()
	tok, err := r.dec.ReadToken()
	if err != nil {
		return k, false, r.syntax(err)
	}
	if tok.Kind() == '}' {
		return k, false, nil
	}
	k.name = tok.String()
	return k, true, nil
}

func (r *reader) namespace(k key) error {
	ns, err := r.stringValue(k)
	if err != nil {
		return err
	}
	prefix := strings.TrimPrefix(strings.TrimPrefix(k.name, namespaceKey), ":")
	decl := schema.NamespaceDeclaration{Prefix: prefix, Namespace: ns}
	r.scopes[len(r.scopes)-1] = append(r.scopes[len(r.scopes)-1], decl)
	r.emit(xamlnode.Node{Type: xamlnode.NamespaceDeclaration, Namespace: decl}, k.off)
	return nil
}

func (r *reader) typeValue(k key) (*schema.Type, error) {
	name, err := r.stringValue(k)
	if err != nil {
		return nil, err
	}
	prefix, local, qualified := strings.Cut(name, ":")
	if !qualified {
		prefix, local = "", name
	}
	ns, declared := r.lookupNamespace(prefix)
	if qualified && !declared {
		return nil, r.errorf(k.off, "namespace prefix '%s' is not declared", prefix)
	}
	t, err := r.sc.Resolve(ns, local)
	if err != nil {
		return nil, r.errorf(k.off, "%v", err)
	}
	return t, nil
}

func (r *reader) lookupNamespace(prefix string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		decls := r.scopes[i]
		for j := len(decls) - 1; j >= 0; j-- {
			if decls[j].Prefix == prefix {
				return decls[j].Namespace, true
			}
		}
	}
	return "", false
}

func (r *reader) stringValue(k key) (string, error) {
	off := r.next()
	tok, err := r.dec.ReadToken()
	if err != nil {
		return "", r.syntax(err)
	}
	if tok.Kind() != '"' {
		return "", r.errorf(off, "'%s' must be a string", k.name)
	}
	return tok.String(), nil
}

func (r *reader) field(typ *schema.Type, k key) error {
	m, ok := directiveKeys[k.name]
	if !ok {
		m, ok = typ.Member(k.name)
	}
	if !ok {
		if !r.ignoreUnknown {
			return r.errorf(k.off, "type '%s' has no member '%s'", typ.Name(), k.name)
		}
		r.logger.Debug("Skipped unknown member.", "type", typ.Name(), "member", k.name, "pos", r.pos(k.off).String())
		if err := r.dec.SkipValue(); err != nil {
			return r.syntax(err)
		}
		return nil
	}

	r.emit(xamlnode.Node{Type: xamlnode.StartMember, Member: m}, k.off)
	if err := r.memberValue(typ, m); err != nil {
		return err
	}
	r.emit(xamlnode.Node{Type: xamlnode.EndMember}, k.off)
	return nil
}

func (r *reader) memberValue(typ *schema.Type, m *schema.Member) error {
	off := r.next()
	switch r.dec.PeekKind() {
	case '[':
		if m == schema.Arguments || m == schema.Items || (m.IsCollection() && !m.IsDictionary()) {
			return r.items(elementType(typ, m))
		}
	case '{':
		if m.IsDirective() {
			break
		}
		if _, err := r.dec.ReadToken(); err != nil {
			return r.syntax(err)
		}
		if m.IsDictionary() {
			return r.entries(m, off)
		}
		return r.object(off, m.Type(), nil, nil)
	}
	return r.value(off)
}

// elementType is the type of objects written without $type into m.
func elementType(typ *schema.Type, m *schema.Member) *schema.Type {
	switch {
	case m == schema.Items:
		return typ.ItemType()
	case m.IsDirective():
		return nil
	default:
		return m.Type().ItemType()
	}
}

func (r *reader) items(def *schema.Type) error {
	if _, err := r.dec.ReadToken(); err != nil {
		return r.syntax(err)
	}
	for {
		off := r.next()
		switch r.dec.PeekKind() {
		case ']':
			if _, err := r.dec.ReadToken(); err != nil {
				return r.syntax(err)
			}
			return nil
		case '{':
			if _, err := r.dec.ReadToken(); err != nil {
				return r.syntax(err)
			}
			if err := r.object(off, def, nil, nil); err != nil {
				return err
			}
		default:
			if err := r.value(off); err != nil {
				return err
			}
		}
	}
}

// entries reads the object written to dictionary member m. An object that
// starts with $type or a namespace declaration replaces the dictionary as a
// whole.
func (r *reader) entries(m *schema.Member, start int64) error {
	k, ok, err := r.nextKey()
	if err != nil {
		return err
	}
	if ok && (k.name == typeKey || isNamespaceKey(k.name)) {
		return r.object(start, m.Type(), nil, &k)
	}
	for ; ok; k, ok, err = r.nextKey() {
		off := r.next()
		if r.dec.PeekKind() == '{' {
			if _, err := r.dec.ReadToken(); err != nil {
				return r.syntax(err)
			}
			name := k.name
			if err := r.object(off, m.Type().ItemType(), &name, nil); err != nil {
				return err
			}
			continue
		}
		v, err := r.plain()
		if err != nil {
			return err
		}
		r.emit(xamlnode.Node{Type: xamlnode.Value, Value: schema.KeyedValue{Key: k.name, Value: v}}, off)
	}
	return err
}

func (r *reader) value(off int64) error {
	v, err := r.plain()
	if err != nil {
		return err
	}
	r.emit(xamlnode.Node{Type: xamlnode.Value, Value: v}, off)
	return nil
}

// plain reads the next value as plain Go data. Whole numbers become int64,
// other numbers float64, arrays []any and objects map[string]any.
func (r *reader) plain() (any, error) {
	off := r.next()
	tok, err := r.dec.ReadToken()
	if err != nil {
		return nil, r.syntax(err)
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	case '0':
		raw := tok.String()
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, r.errorf(off, "invalid number %s: %v", raw, err)
		}
		return f, nil
	case '[':
		var list []any
		for r.dec.PeekKind() != ']' {
			v, err := r.plain()
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := r.dec.ReadToken(); err != nil {
			return nil, r.syntax(err)
		}
		return list, nil
	case '{':
		obj := make(map[string]any)
		for {
			k, ok, err := r.nextKey()
			if err != nil {
				return nil, err
			}
			if !ok {
				return obj, nil
			}
			if obj[k.name], err = r.plain(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, r.errorf(off, "unexpected %s", tok.Kind())
	}
}

func (r *reader) emit(n xamlnode.Node, off int64) {
	n.Pos = r.pos(off)
	r.out.Add(n)
}

// next returns the offset of the next token, skipping whitespace and
// separators after the last one read.
func (r *reader) next() int64 {
	off := r.dec.InputOffset()
	for off < int64(len(r.data)) {
		switch r.data[off] {
		case ' ', '\t', '\r', '\n', ',', ':':
			off++
		default:
			return off
		}
	}
	return off
}

func (r *reader) pos(off int64) xamlnode.Position {
	line := sort.SearchInts(r.lineStarts, int(off)+1) - 1
	return xamlnode.Position{
		Filename: r.filename,
		Line:     line + 1,
		Column:   int(off) - r.lineStarts[line] + 1,
		Offset:   int(off),
	}
}

func (r *reader) errorf(off int64, format string, args ...any) error {
	return fmt.Errorf("%s: %s", r.pos(off), fmt.Sprintf(format, args...))
}

func (r *reader) syntax(err error) error {
	return fmt.Errorf("failed to parse JSON file %s: %w", r.filename, err)
}

func isNamespaceKey(name string) bool {
	return name == namespaceKey || strings.HasPrefix(name, namespaceKey+":")
}

func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
