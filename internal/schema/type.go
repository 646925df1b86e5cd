// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Type, the descriptor of everything the object writer can
// instantiate. A Type answers the questions the writer asks while it builds an
// object: can it be created without arguments, which members feed its
// constructors, does it accept items, and how is an instance produced.

package schema

import (
	"fmt"
	"reflect"
	"sort"
)

// TypeKind classifies how a type stores its contents.
type TypeKind uint8

const (
	// KindObject is a plain object with named members.
	KindObject TypeKind = iota
	// KindCollection accepts positional items through AddToCollection.
	KindCollection
	// KindDictionary accepts keyed items through AddToDictionary.
	KindDictionary
	// KindPrimitive is a scalar with no members.
	KindPrimitive
)

func (k TypeKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindCollection:
		return "collection"
	case KindDictionary:
		return "dictionary"
	case KindPrimitive:
		return "primitive"
	default:
		return fmt.Sprintf("TypeKind(%d)", uint8(k))
	}
}

// Parameter is one constructor parameter, bound to the member whose value
// supplies it.
type Parameter struct {
	Member   string
	Optional bool
}

// Constructor describes one way of building an instance from member values.
// Arities are unique per type; the invoker selects a constructor by arity.
type Constructor struct {
	Params []Parameter
}

// Arity returns the number of parameters.
func (c Constructor) Arity() int { return len(c.Params) }

// required reports how many parameters have no default.
func (c Constructor) required() int {
	n := 0
	for _, p := range c.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// Property is a member paired with the value written for it.
type Property struct {
	Member *Member
	Value  any
}

// TypeSpec carries everything needed to build a Type.
type TypeSpec struct {
	Name      string
	Namespace string

	// Underlying is the runtime type instances are assignable to. It is
	// optional; a nil Underlying makes Accepts permissive.
	Underlying reflect.Type

	Kind      TypeKind
	Immutable bool

	Invoker   TypeInvoker
	Converter Converter

	Constructors []Constructor
	Factories    map[string]Factory

	// ItemType and KeyType describe collection items and dictionary keys.
	ItemType *Type
	KeyType  *Type

	// NameAlias names the member that mirrors the x:Name directive.
	NameAlias string
}

// Type is the descriptor of an instantiable type.
type Type struct {
	spec    TypeSpec
	members []*Member
	byName  map[string]*Member
	ctors   []Constructor
}

// NewType builds a Type from spec. Constructors are kept widest first.
func NewType(spec TypeSpec) *Type {
	t := &Type{
		spec:   spec,
		byName: make(map[string]*Member),
	}
	t.ctors = append(t.ctors, spec.Constructors...)
	sort.SliceStable(t.ctors, func(i, j int) bool { return t.ctors[i].Arity() > t.ctors[j].Arity() })
	return t
}

// AddMember attaches a member to the type and returns it. Adding two members
// with the same name is a programmer error and panics.
func (t *Type) AddMember(spec MemberSpec) *Member {
	if _, exists := t.byName[spec.Name]; exists {
		panic(fmt.Sprintf("member '%s' already defined on type '%s'", spec.Name, t.Name()))
	}
	m := &Member{spec: spec, declaring: t}
	for _, c := range t.ctors {
		for _, p := range c.Params {
			if p.Member == spec.Name {
				m.spec.ConstructorArgument = true
			}
		}
	}
	t.members = append(t.members, m)
	t.byName[spec.Name] = m
	return m
}

func (t *Type) Name() string      { return t.spec.Name }
func (t *Type) Namespace() string { return t.spec.Namespace }

// QName returns the namespace-qualified name.
func (t *Type) QName() QName { return QName{Namespace: t.spec.Namespace, Name: t.spec.Name} }

func (t *Type) Underlying() reflect.Type { return t.spec.Underlying }
func (t *Type) Kind() TypeKind           { return t.spec.Kind }
func (t *Type) Invoker() TypeInvoker     { return t.spec.Invoker }
func (t *Type) Converter() Converter     { return t.spec.Converter }
func (t *Type) ItemType() *Type          { return t.spec.ItemType }
func (t *Type) KeyType() *Type           { return t.spec.KeyType }

func (t *Type) IsCollection() bool { return t.spec.Kind == KindCollection }
func (t *Type) IsDictionary() bool { return t.spec.Kind == KindDictionary }

// IsImmutable reports whether instances must be built through a mutable
// stand-in and finalized at the end of the object.
func (t *Type) IsImmutable() bool { return t.spec.Immutable }

// Members returns the members in declaration order.
func (t *Type) Members() []*Member { return t.members }

// Member looks a member up by name.
func (t *Type) Member(name string) (*Member, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// NameAlias returns the member mirroring x:Name, if any.
func (t *Type) NameAlias() (*Member, bool) {
	if t.spec.NameAlias == "" {
		return nil, false
	}
	return t.Member(t.spec.NameAlias)
}

// FactoryMethod looks up a named factory.
func (t *Type) FactoryMethod(name string) (Factory, bool) {
	f, ok := t.spec.Factories[name]
	return f, ok
}

// Constructors returns the declared constructors, widest first.
func (t *Type) Constructors() []Constructor { return t.ctors }

// ConstructionRequiresArguments is true when every declared constructor needs
// at least one argument.
func (t *Type) ConstructionRequiresArguments() bool {
	if len(t.ctors) == 0 {
		return false
	}
	for _, c := range t.ctors {
		if c.required() == 0 {
			return false
		}
	}
	return true
}

// HasAllConstructorArguments reports whether the widest constructor has every
// one of its parameters among written.
func (t *Type) HasAllConstructorArguments(written []Property) bool {
	if len(t.ctors) == 0 {
		return true
	}
	supplied := suppliedArguments(written)
	for _, p := range t.ctors[0].Params {
		if _, ok := supplied[p.Member]; !ok {
			return false
		}
	}
	return true
}

// SortedConstructorArguments picks the widest constructor whose required
// parameters are all present in written and returns its arguments in
// declared parameter order. Optional parameters that were not written are
// returned with a nil value. It returns nil when no constructor fits.
func (t *Type) SortedConstructorArguments(written []Property) []Property {
	supplied := suppliedArguments(written)
	for _, c := range t.ctors {
		if !c.satisfiedBy(supplied) {
			continue
		}
		args := make([]Property, len(c.Params))
		for i, p := range c.Params {
			if prop, ok := supplied[p.Member]; ok {
				args[i] = prop
				continue
			}
			m, _ := t.Member(p.Member)
			args[i] = Property{Member: m}
		}
		return args
	}
	return nil
}

func (c Constructor) satisfiedBy(supplied map[string]Property) bool {
	for _, p := range c.Params {
		if _, ok := supplied[p.Member]; !ok && !p.Optional {
			return false
		}
	}
	return true
}

func suppliedArguments(written []Property) map[string]Property {
	supplied := make(map[string]Property, len(written))
	for _, prop := range written {
		if prop.Member == nil || !prop.Member.IsConstructorArgument() {
			continue
		}
		supplied[prop.Member.Name()] = prop
	}
	return supplied
}

// Accepts reports whether value can be stored in a location of this type
// without conversion. Pointers to assignable values are accepted, mirroring
// how instances of struct types are carried around by pointer.
func (t *Type) Accepts(value any) bool {
	u := t.spec.Underlying
	if u == nil || value == nil {
		return true
	}
	vt := reflect.TypeOf(value)
	if vt.AssignableTo(u) {
		return true
	}
	return vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(u)
}

// String returns the qualified name of the type.
func (t *Type) String() string {
	return t.QName().String()
}
