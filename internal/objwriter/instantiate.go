package objwriter

import (
	"github.com/vk/objgraph/internal/schema"
)

// instantiateIfRequired moves s towards having a value. Without required it
// defers while constructor arguments are still missing, or enters the
// stand-in phase for immutable types. With required it always ends with an
// instantiated value or an error.
func (w *Writer) instantiateIfRequired(s *objectState, required bool) error {
	switch s.phase {
	case phaseInstantiated:
		return nil
	case phaseStandIn:
		if required {
			return w.finalizeStandIn(s)
		}
		return nil
	}

	if err := w.collectConstructorItems(s); err != nil {
		return err
	}
	byDirective := s.hasInitialization || s.factoryMethod != "" || s.hasArguments
	if !byDirective {
		if s.typ.IsImmutable() {
			standIn, err := s.typ.Invoker().ToMutable(nil)
			if err != nil {
				return newError(CodeConstructorResolution, s.typ, nil, err, "creating a stand-in failed")
			}
			if standIn != nil {
				return w.enterStandIn(s, standIn, nil, required)
			}
		}
		if !required && s.typ.ConstructionRequiresArguments() && !s.typ.HasAllConstructorArguments(s.properties()) {
			w.logger.Debug("Deferred instantiation until constructor arguments are written.", "type", s.typ.Name())
			return nil
		}
	}

	value, consumed, err := w.construct(s)
	if err != nil {
		return err
	}
	if s.typ.IsImmutable() {
		standIn, err := s.typ.Invoker().ToMutable(value)
		if err != nil {
			return newError(CodeConstructorResolution, s.typ, nil, err, "creating a stand-in failed")
		}
		if standIn != nil {
			return w.enterStandIn(s, standIn, consumed, required)
		}
	}

	s.instantiate(value)
	w.logger.Debug("Instantiated object.", "type", s.typ.Name(), "required", required)
	return w.applyWritten(s, consumed)
}

// collectConstructorItems moves the buffered items of collection constructor
// arguments into a new container that becomes the written value, so the
// member can be passed to a constructor.
func (w *Writer) collectConstructorItems(s *objectState) error {
	for _, wp := range s.written {
		m := wp.member
		if wp.applied || len(wp.items) == 0 || !m.IsConstructorArgument() || !m.IsCollection() {
			continue
		}
		c := wp.value
		if !wp.hasValue || isNil(c) {
			created, err := m.Type().Invoker().CreateInstance(nil)
			if err != nil {
				return newError(CodeConstructorResolution, m.Type(), nil, err, "creating a collection for %s failed", m.String())
			}
			c = created
		}
		for _, it := range wp.items {
			if err := w.addTo(m.Type(), c, it, s.typ, m); err != nil {
				return err
			}
		}
		wp.value, wp.hasValue, wp.items = c, true, nil
	}
	return nil
}

// construct produces the instance through x:Initialization, a factory
// method, x:Arguments or the widest constructor the written members
// satisfy, in that order of precedence.
func (w *Writer) construct(s *objectState) (any, map[*schema.Member]bool, error) {
	switch {
	case s.hasInitialization:
		v, err := w.convert(s.typ, nil, s.initialization)
		if err != nil {
			return nil, nil, newError(CodeConversion, s.typ, schema.Initialization, err, "cannot convert %T", s.initialization)
		}
		if !s.typ.Accepts(v) {
			return nil, nil, newError(CodeConversion, s.typ, schema.Initialization, nil, "cannot convert %T to %s", s.initialization, s.typ.Name())
		}
		return v, nil, nil

	case s.factoryMethod != "":
		f, ok := s.typ.FactoryMethod(s.factoryMethod)
		if !ok {
			return nil, nil, newError(CodeFactoryMethod, s.typ, schema.FactoryMethod, nil, "no factory method named '%s'", s.factoryMethod)
		}
		v, err := f(s.arguments)
		if err != nil {
			return nil, nil, newError(CodeFactoryMethod, s.typ, schema.FactoryMethod, err, "factory method '%s' failed", s.factoryMethod)
		}
		return v, nil, nil

	case s.hasArguments:
		v, err := s.typ.Invoker().CreateInstance(s.arguments)
		if err != nil {
			return nil, nil, newError(CodeConstructorResolution, s.typ, schema.Arguments, err, "constructing from %d arguments failed", len(s.arguments))
		}
		return v, nil, nil
	}

	args := s.typ.SortedConstructorArguments(s.properties())
	if args == nil && s.typ.ConstructionRequiresArguments() {
		return nil, nil, newError(CodeConstructorResolution, s.typ, nil, nil, "could not find constructor for %s based on supplied members", s.typ.Name())
	}
	var (
		values   []any
		consumed map[*schema.Member]bool
	)
	if len(args) > 0 {
		values = make([]any, len(args))
		consumed = make(map[*schema.Member]bool, len(args))
		for i, a := range args {
			v, err := w.convert(a.Member.Type(), a.Member, a.Value)
			if err != nil {
				return nil, nil, newError(CodeConversion, s.typ, a.Member, err, "cannot convert constructor argument %T", a.Value)
			}
			values[i] = v
			consumed[a.Member] = true
		}
	}
	v, err := s.typ.Invoker().CreateInstance(values)
	if err != nil {
		return nil, nil, newError(CodeConstructorResolution, s.typ, nil, err, "constructor failed")
	}
	return v, consumed, nil
}

func (w *Writer) enterStandIn(s *objectState, standIn any, consumed map[*schema.Member]bool, required bool) error {
	s.phase, s.value = phaseStandIn, standIn
	w.logger.Debug("Created stand-in for immutable object.", "type", s.typ.Name())
	if err := w.applyWritten(s, consumed); err != nil {
		return err
	}
	if required {
		return w.finalizeStandIn(s)
	}
	return nil
}

func (w *Writer) finalizeStandIn(s *objectState) error {
	v, err := s.typ.Invoker().ToImmutable(s.value)
	if err != nil {
		return newError(CodeConstructorResolution, s.typ, nil, err, "finalizing the stand-in failed")
	}
	s.instantiate(v)
	// Cached containers belong to the stand-in.
	clear(s.containers)
	w.logger.Debug("Finalized stand-in.", "type", s.typ.Name())
	return nil
}

// applyWritten applies every written property that was not consumed as a
// constructor argument, in written order. Values written to read-only
// members are dropped.
func (w *Writer) applyWritten(s *objectState, consumed map[*schema.Member]bool) error {
	for _, wp := range s.written {
		if wp.applied {
			continue
		}
		wp.applied = true
		if consumed[wp.member] {
			continue
		}
		// Read-only members only take their value through a constructor or
		// a stand-in.
		skip := wp.member.IsReadOnly() && !wp.member.IsConstructorArgument() && s.phase != phaseStandIn
		if wp.hasValue && !skip {
			if err := w.applyValue(s, wp.member, wp.value); err != nil {
				return err
			}
		}
		for _, it := range wp.items {
			if err := w.addItem(s, wp.member, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) applyValue(s *objectState, m *schema.Member, v any) error {
	if m.IsCollection() {
		if s.providedByParent {
			return nil
		}
		if err := w.assign(s, m, v); err != nil {
			return err
		}
		delete(s.containers, m)
		return nil
	}
	return w.assign(s, m, v)
}
