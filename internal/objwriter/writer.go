// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the event-facing half of the object writer: the write
// operations a producer calls, the state stack they drive and the result
// handed back once the root object is closed.

package objwriter

import (
	"context"
	"log/slog"

	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/schema"
)

// Writer materializes an object graph from a stream of write events. It is
// not safe for concurrent use; each graph needs its own Writer.
type Writer struct {
	sc     *schema.Context
	logger *slog.Logger

	stack     []*objectState
	names     *nameScope
	pendingNS []schema.NamespaceDeclaration

	root    any
	hasRoot bool

	result any
	done   bool
	err    error
}

// Option configures a Writer.
type Option func(*Writer)

// WithRootObject makes the writer populate root instead of constructing the
// outermost object.
func WithRootObject(root any) Option {
	return func(w *Writer) {
		w.root = root
		w.hasRoot = true
	}
}

// New creates a Writer resolving types against sc. The logger is taken from
// ctx.
func New(ctx context.Context, sc *schema.Context, opts ...Option) *Writer {
	w := &Writer{
		sc:     sc,
		logger: ctxlog.FromContext(ctx),
		names:  newNameScope(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Result returns the root value once the outermost object has been closed.
func (w *Writer) Result() (any, error) {
	if w.err != nil {
		return nil, w.err
	}
	if !w.done {
		return nil, newError(CodeInvalidOperation, nil, nil, nil, "the root object has not been closed")
	}
	return w.result, nil
}

// Names resolves the identifiers registered through x:Name so far.
func (w *Writer) Names() schema.NameResolver { return w.names }

// SchemaContext returns the schema context the writer was created with.
func (w *Writer) SchemaContext() *schema.Context { return w.sc }

// LookupNamespace resolves a prefix against the declarations in scope,
// innermost first.
func (w *Writer) LookupNamespace(prefix string) (string, bool) {
	for i := len(w.pendingNS) - 1; i >= 0; i-- {
		if w.pendingNS[i].Prefix == prefix {
			return w.pendingNS[i].Namespace, true
		}
	}
	for i := len(w.stack) - 1; i >= 0; i-- {
		decls := w.stack[i].namespaces
		for j := len(decls) - 1; j >= 0; j-- {
			if decls[j].Prefix == prefix {
				return decls[j].Namespace, true
			}
		}
	}
	return "", false
}

// WriteNamespace binds a prefix for the next object started or got.
func (w *Writer) WriteNamespace(decl schema.NamespaceDeclaration) error {
	if w.err != nil {
		return w.err
	}
	w.pendingNS = append(w.pendingNS, decl)
	return nil
}

// WriteStartObject opens an object of type t. Instantiation is deferred
// until the object needs a value.
func (w *Writer) WriteStartObject(t *schema.Type) error {
	if w.err != nil {
		return w.err
	}
	return w.fail(w.startObject(t))
}

// WriteGetObject opens the value the parent's current member already holds,
// creating an empty collection or dictionary when it holds none.
func (w *Writer) WriteGetObject() error {
	if w.err != nil {
		return w.err
	}
	return w.fail(w.getObject())
}

// WriteStartMember opens member m, or a directive, on the current object.
func (w *Writer) WriteStartMember(m *schema.Member) error {
	if w.err != nil {
		return w.err
	}
	return w.fail(w.startMember(m))
}

// WriteValue commits v to the open member. Collection members take one item
// per call.
func (w *Writer) WriteValue(v any) error {
	if w.err != nil {
		return w.err
	}
	s := w.top()
	if s == nil || s.currentMember == nil {
		return w.fail(newError(CodeInvalidOperation, nil, nil, nil, "value written without an open member"))
	}
	return w.fail(w.commit(s, v, nil, false))
}

// WriteEndMember closes the open member.
func (w *Writer) WriteEndMember() error {
	if w.err != nil {
		return w.err
	}
	return w.fail(w.endMember())
}

// WriteEndObject instantiates the current object if needed, evaluates a
// markup extension and hands the value to the parent member or the result.
func (w *Writer) WriteEndObject() error {
	if w.err != nil {
		return w.err
	}
	return w.fail(w.endObject())
}

// fail makes the first error sticky; the writer is forward-only.
func (w *Writer) fail(err error) error {
	if err != nil && w.err == nil {
		w.err = err
		w.logger.Debug("Object writer stopped on error.", "error", err, "depth", len(w.stack))
	}
	return err
}

func (w *Writer) top() *objectState {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

func (w *Writer) parentOf(depth int) *objectState {
	if depth < 1 {
		return nil
	}
	return w.stack[depth-1]
}

func (w *Writer) startObject(t *schema.Type) error {
	if t == nil {
		return newError(CodeInvalidOperation, nil, nil, nil, "start object without a type")
	}
	if w.done {
		return newError(CodeInvalidOperation, t, nil, nil, "the root object is already closed")
	}
	parent := w.top()
	if parent != nil && parent.currentMember == nil {
		return newError(CodeInvalidOperation, parent.typ, nil, nil, "cannot start an object of type %s without an open member", t.Name())
	}

	s := newObjectState(t)
	s.namespaces, w.pendingNS = w.pendingNS, nil
	if parent == nil && w.hasRoot {
		if !t.Accepts(w.root) {
			return newError(CodeInvalidOperation, t, nil, nil, "root object of type %T is not a %s", w.root, t.Name())
		}
		s.instantiate(w.root)
	}
	w.stack = append(w.stack, s)
	w.logger.Debug("Started object.", "type", t.Name(), "depth", len(w.stack))
	return nil
}

func (w *Writer) getObject() error {
	parent := w.top()
	if parent == nil || parent.currentMember == nil {
		return newError(CodeInvalidOperation, nil, nil, nil, "get object without an open member")
	}
	m, ms := parent.currentMember, parent.currentMemberState
	if m.IsDirective() || m.Type() == nil {
		return newError(CodeInvalidOperation, parent.typ, m, nil, "cannot get the value of a directive")
	}
	if ms.hasValue || ms.alreadySet || len(ms.items) > 0 {
		return newError(CodeInvalidOperation, parent.typ, m, nil, "get object must directly follow the start of the member")
	}
	if !parent.ready() {
		return newError(CodeInvalidOperation, parent.typ, m, nil, "cannot get a member value before %s is instantiated", parent.typ.Name())
	}

	var (
		v   any
		err error
	)
	if m.IsCollection() {
		v, err = w.container(parent, m)
		if err != nil {
			return err
		}
	} else {
		v, err = m.Invoker().GetValue(parent.value)
		if err != nil {
			return newError(CodeMemberAssignment, parent.typ, m, err, "reading the member value failed")
		}
		if isNil(v) {
			return newError(CodeInvalidOperation, parent.typ, m, nil, "member has no value to get")
		}
	}

	ms.alreadySet = true
	s := newObjectState(m.Type())
	s.instantiate(v)
	s.providedByParent = true
	s.namespaces, w.pendingNS = w.pendingNS, nil
	w.stack = append(w.stack, s)
	w.logger.Debug("Got object from parent member.", "type", m.Type().Name(), "member", m.String(), "depth", len(w.stack))
	return nil
}

func (w *Writer) startMember(m *schema.Member) error {
	s := w.top()
	if s == nil {
		return newError(CodeInvalidOperation, nil, m, nil, "start member without an open object")
	}
	if m == nil {
		return newError(CodeInvalidOperation, s.typ, nil, nil, "start member without a member")
	}
	if s.currentMember != nil {
		return newError(CodeInvalidOperation, s.typ, s.currentMember, nil, "member is still open when %s starts", m.Name())
	}
	if m.IsDirective() {
		return w.startDirective(s, m)
	}
	if dt := m.DeclaringType(); dt != nil && dt != s.typ {
		return newError(CodeInvalidOperation, s.typ, m, nil, "member belongs to %s", dt.Name())
	}
	if s.completed[m] && !m.IsCollection() {
		return newError(CodeDuplicateMember, s.typ, m, nil, "member was already written")
	}
	if !m.IsConstructorArgument() {
		if err := w.instantiateIfRequired(s, false); err != nil {
			return err
		}
	}
	s.currentMember, s.currentMemberState = m, &memberState{}
	return nil
}

func (w *Writer) startDirective(s *objectState, m *schema.Member) error {
	switch m {
	case schema.Items:
		if !s.typ.IsCollection() && !s.typ.IsDictionary() {
			return newError(CodeInvalidOperation, s.typ, m, nil, "type is neither a collection nor a dictionary")
		}
		if err := w.instantiateIfRequired(s, true); err != nil {
			return err
		}
	case schema.FactoryMethod, schema.Arguments, schema.Initialization:
		if s.ready() {
			return newError(CodeInvalidOperation, s.typ, m, nil, "construction directives must precede the members of the object")
		}
		if s.completed[m] {
			return newError(CodeDuplicateMember, s.typ, m, nil, "directive was already written")
		}
		if m == schema.Arguments {
			s.hasArguments = true
		}
	default:
		if s.completed[m] {
			return newError(CodeDuplicateMember, s.typ, m, nil, "directive was already written")
		}
	}
	s.currentMember, s.currentMemberState = m, &memberState{}
	return nil
}

func (w *Writer) endMember() error {
	s := w.top()
	if s == nil || s.currentMember == nil {
		return newError(CodeInvalidOperation, nil, nil, nil, "end member without an open member")
	}
	m, ms := s.currentMember, s.currentMemberState
	s.currentMember, s.currentMemberState = nil, nil
	s.completed[m] = true
	if m.IsDirective() {
		return nil
	}

	ms.alreadySet = true
	s.record(m, ms, s.ready())
	if m.IsConstructorArgument() && s.phase == phasePending {
		return w.instantiateIfRequired(s, false)
	}
	return nil
}

func (w *Writer) endObject() error {
	s := w.top()
	if s == nil {
		return newError(CodeInvalidOperation, nil, nil, nil, "end object without an open object")
	}
	if s.currentMember != nil {
		return newError(CodeInvalidOperation, s.typ, s.currentMember, nil, "member is still open at the end of the object")
	}
	if !s.providedByParent {
		if err := w.instantiateIfRequired(s, true); err != nil {
			return err
		}
	}

	depth := len(w.stack) - 1
	parent := w.parentOf(depth)
	value := s.value
	if ext, ok := value.(schema.MarkupExtension); ok && !s.providedByParent {
		provided, err := ext.ProvideValue(w.serviceProvider(parent))
		if err != nil {
			return newError(CodeMarkupExtension, s.typ, nil, err, "providing a value failed")
		}
		value = provided
	}
	if s.name != "" {
		if err := w.names.register(s.name, value); err != nil {
			return newError(CodeInvalidOperation, s.typ, schema.Name, err, "registering the object name failed")
		}
	}

	w.stack[depth] = nil
	w.stack = w.stack[:depth]
	w.logger.Debug("Finished object.", "type", s.typ.Name(), "depth", depth+1)

	if parent == nil {
		w.result, w.done = value, true
		return nil
	}
	if s.providedByParent {
		parent.currentMemberState.alreadySet = true
		return nil
	}
	return w.commit(parent, value, s.key, s.hasKey)
}
