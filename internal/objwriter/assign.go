package objwriter

import (
	"reflect"

	"github.com/vk/objgraph/internal/schema"
)

// commit delivers v to the member open on s. key is the x:Key of a nested
// object being attached, if it had one.
func (w *Writer) commit(s *objectState, v any, key any, hasKey bool) error {
	m, ms := s.currentMember, s.currentMemberState
	switch {
	case m.IsDirective():
		return w.directiveValue(s, m, ms, v, key, hasKey)
	case m.IsCollection():
		return w.collectionValue(s, m, ms, v, key, hasKey)
	}

	if ms.hasValue || ms.alreadySet {
		return newError(CodeDuplicateMember, s.typ, m, nil, "member already has a value")
	}
	ms.hasValue, ms.value = true, v
	if !s.ready() {
		return nil
	}
	if err := w.assign(s, m, v); err != nil {
		return err
	}
	ms.alreadySet = true
	return nil
}

// collectionValue either replaces the container of a collection member or
// adds one item to it.
func (w *Writer) collectionValue(s *objectState, m *schema.Member, ms *memberState, v any, key any, hasKey bool) error {
	if kv, ok := v.(schema.KeyedValue); ok && !hasKey {
		key, hasKey, v = kv.Key, true, kv.Value
	}

	if !hasKey && !ms.hasValue && len(ms.items) == 0 && isWholeValue(m.Type(), v) {
		ms.hasValue, ms.value = true, v
		if !s.ready() {
			return nil
		}
		if s.providedByParent {
			// The container lives where the parent put it and is never
			// reassigned.
			ms.alreadySet = true
			return nil
		}
		if err := w.assign(s, m, v); err != nil {
			return err
		}
		delete(s.containers, m)
		ms.alreadySet = true
		return nil
	}

	if m.IsDictionary() && !hasKey {
		return newError(CodeInvalidOperation, s.typ, m, nil, "dictionary entries need a key")
	}
	it := item{key: key, hasKey: hasKey, value: v}
	if !s.ready() {
		ms.items = append(ms.items, it)
		return nil
	}
	return w.addItem(s, m, it)
}

func (w *Writer) directiveValue(s *objectState, m *schema.Member, ms *memberState, v any, key any, hasKey bool) error {
	if m == schema.Items {
		if kv, ok := v.(schema.KeyedValue); ok && !hasKey {
			key, hasKey, v = kv.Key, true, kv.Value
		}
		if s.typ.IsDictionary() && !hasKey {
			return newError(CodeInvalidOperation, s.typ, m, nil, "dictionary entries need a key")
		}
		return w.addTo(s.typ, s.value, item{key: key, hasKey: hasKey, value: v}, s.typ, m)
	}
	if m == schema.Arguments {
		s.arguments = append(s.arguments, v)
		return nil
	}
	if ms.hasValue {
		return newError(CodeDuplicateMember, s.typ, m, nil, "directive already has a value")
	}
	ms.hasValue, ms.value = true, v

	switch m {
	case schema.Class:
		name, ok := v.(string)
		if !ok {
			return newError(CodeInvalidOperation, s.typ, m, nil, "class name must be a string, got %T", v)
		}
		s.className = name
	case schema.Name:
		name, ok := v.(string)
		if !ok || name == "" {
			return newError(CodeInvalidOperation, s.typ, m, nil, "name must be a non-empty string, got %T", v)
		}
		s.name = name
		return w.applyNameAlias(s, name)
	case schema.Key:
		s.key, s.hasKey = v, true
	case schema.FactoryMethod:
		name, ok := v.(string)
		if !ok || name == "" {
			return newError(CodeInvalidOperation, s.typ, m, nil, "factory method must be a non-empty string, got %T", v)
		}
		s.factoryMethod = name
	case schema.Initialization:
		s.initialization, s.hasInitialization = v, true
	default:
		return newError(CodeInvalidOperation, s.typ, m, nil, "unsupported directive")
	}
	return nil
}

// applyNameAlias mirrors x:Name into the type's name property unless that
// member was written explicitly.
func (w *Writer) applyNameAlias(s *objectState, name string) error {
	alias, ok := s.typ.NameAlias()
	if !ok || s.completed[alias] || s.hasWritten(alias) {
		return nil
	}
	if s.ready() {
		if err := w.assign(s, alias, name); err != nil {
			return err
		}
	}
	s.record(alias, &memberState{hasValue: true, value: name}, s.ready())
	s.completed[alias] = true
	return nil
}

// assign sets m on the object or stand-in held by s.
func (w *Writer) assign(s *objectState, m *schema.Member, v any) error {
	if m.IsReadOnly() && s.phase != phaseStandIn {
		if m.IsConstructorArgument() {
			return newError(CodeReadOnlyConstructorMember, s.typ, m, nil, "read-only constructor member was not consumed by a constructor")
		}
		return newError(CodeMemberAssignment, s.typ, m, nil, "member is read-only")
	}
	cv, err := w.convert(m.Type(), m, v)
	if err != nil {
		return newError(CodeConversion, s.typ, m, err, "cannot convert %T", v)
	}
	if err := m.Invoker().SetValue(s.value, cv); err != nil {
		return newError(CodeMemberAssignment, s.typ, m, err, "set value of member '%s' failed", m.Name())
	}
	return nil
}

func (w *Writer) addItem(s *objectState, m *schema.Member, it item) error {
	c, err := w.container(s, m)
	if err != nil {
		return err
	}
	return w.addTo(m.Type(), c, it, s.typ, m)
}

// addTo adds one item to container c of collection or dictionary type ct.
// Keys are only valid for dictionaries. owner and m only label errors.
func (w *Writer) addTo(ct *schema.Type, c any, it item, owner *schema.Type, m *schema.Member) error {
	v, err := w.convert(ct.ItemType(), nil, it.value)
	if err != nil {
		return newError(CodeConversion, owner, m, err, "cannot convert item %T", it.value)
	}
	if ct.IsDictionary() {
		k, err := w.convert(ct.KeyType(), nil, it.key)
		if err != nil {
			return newError(CodeConversion, owner, m, err, "cannot convert key %v", it.key)
		}
		if err := ct.Invoker().AddToDictionary(c, k, v); err != nil {
			return newError(CodeMemberAssignment, owner, m, err, "adding entry '%v' failed", it.key)
		}
		return nil
	}
	if it.hasKey {
		return newError(CodeInvalidOperation, owner, m, nil, "key '%v' given for an item of a list", it.key)
	}
	if err := ct.Invoker().AddToCollection(c, v); err != nil {
		return newError(CodeMemberAssignment, owner, m, err, "adding item failed")
	}
	return nil
}

// container returns the collection held by member m of s, creating and
// assigning an empty one when the member holds nothing yet.
func (w *Writer) container(s *objectState, m *schema.Member) (any, error) {
	if c, ok := s.containers[m]; ok {
		return c, nil
	}
	c, err := m.Invoker().GetValue(s.value)
	if err != nil {
		return nil, newError(CodeMemberAssignment, s.typ, m, err, "reading the collection failed")
	}
	if isNil(c) {
		if m.IsReadOnly() {
			return nil, newError(CodeMemberAssignment, s.typ, m, nil, "read-only collection member holds no collection")
		}
		created, err := m.Type().Invoker().CreateInstance(nil)
		if err != nil {
			return nil, newError(CodeConstructorResolution, m.Type(), nil, err, "creating a collection for %s failed", m.String())
		}
		if err := m.Invoker().SetValue(s.value, created); err != nil {
			return nil, newError(CodeMemberAssignment, s.typ, m, err, "set value of member '%s' failed", m.Name())
		}
		if c, err = m.Invoker().GetValue(s.value); err != nil {
			return nil, newError(CodeMemberAssignment, s.typ, m, err, "reading the collection failed")
		}
		w.logger.Debug("Created collection for member.", "type", s.typ.Name(), "member", m.Name())
	}
	s.containers[m] = c
	return c, nil
}

// convert adapts v to type t, first through the member converter and then
// through the type converter. Values t already accepts pass through.
func (w *Writer) convert(t *schema.Type, m *schema.Member, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if m != nil && m.Converter() != nil && (t == nil || !t.Accepts(v)) {
		return m.Converter().ConvertFrom(v)
	}
	if t == nil || t.Accepts(v) || t.Converter() == nil {
		return v, nil
	}
	return t.Converter().ConvertFrom(v)
}

// isWholeValue reports whether v replaces a collection of type t rather than
// being added to it.
func isWholeValue(t *schema.Type, v any) bool {
	return v != nil && t != nil && t.Underlying() != nil && t.Accepts(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
