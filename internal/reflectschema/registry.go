// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reflectschema

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/vk/objgraph/internal/convert"
	"github.com/vk/objgraph/internal/schema"
)

// Module is the interface that every compiled-in type package implements to
// make its types known.
type Module interface {
	Register(r *Registry)
}

// Registry describes Go types and publishes the named ones to a
// schema.Context.
type Registry struct {
	sc         *schema.Context
	described  map[reflect.Type]*schema.Type
	registered map[reflect.Type]*typeConfig
}

// New creates a registry publishing into sc.
func New(sc *schema.Context) *Registry {
	return &Registry{
		sc:         sc,
		described:  make(map[reflect.Type]*schema.Type),
		registered: make(map[reflect.Type]*typeConfig),
	}
}

// Context returns the schema context the registry publishes into.
func (r *Registry) Context() *schema.Context { return r.sc }

// Register describes the Go type of sample (a value or a pointer) and makes
// it resolvable under namespace. Registration problems are programmer errors
// and panic. A type must be registered before any other type whose members
// refer to it.
func (r *Registry) Register(namespace string, sample any, opts ...Option) *schema.Type {
	goType := baseType(reflect.TypeOf(sample))
	if _, exists := r.registered[goType]; exists {
		panic(fmt.Sprintf("type '%s' already registered", goType))
	}
	if _, exists := r.described[goType]; exists {
		panic(fmt.Sprintf("type '%s' was referenced before it was registered; register it first", goType))
	}

	cfg := &typeConfig{name: goType.Name()}
	for _, opt := range opts {
		opt(cfg)
	}
	r.registered[goType] = cfg

	t := r.describe(goType, namespace, cfg)
	if err := r.sc.Add(t); err != nil {
		panic(err.Error())
	}
	slog.Debug("Registered type.", "type", t.String(), "go_type", goType.String(), "kind", t.Kind().String())
	return t
}

// TypeOf returns the descriptor of a Go type, describing it on first use.
// Types obtained this way are not resolvable by name.
func (r *Registry) TypeOf(goType reflect.Type) *schema.Type {
	goType = baseType(goType)
	if t, ok := r.described[goType]; ok {
		return t
	}
	return r.describe(goType, "", &typeConfig{name: typeName(goType)})
}

// Registered reports whether goType was registered by name.
func (r *Registry) Registered(goType reflect.Type) bool {
	_, ok := r.registered[baseType(goType)]
	return ok
}

func (r *Registry) describe(goType reflect.Type, namespace string, cfg *typeConfig) *schema.Type {
	inv := &typeInvoker{
		goType:      goType,
		ctors:       make(map[int]reflect.Value),
		toMutable:   cfg.toMutable,
		toImmutable: cfg.toImmutable,
	}
	spec := schema.TypeSpec{
		Name:       cfg.name,
		Namespace:  namespace,
		Underlying: goType,
		Kind:       kindOf(goType),
		Immutable:  cfg.toMutable.IsValid(),
		Invoker:    inv,
		Converter:  cfg.converter,
		NameAlias:  cfg.nameAlias,
	}
	for _, c := range cfg.ctors {
		arity := len(c.params)
		if _, dup := inv.ctors[arity]; dup {
			panic(fmt.Sprintf("type '%s' declares two constructors taking %d arguments", cfg.name, arity))
		}
		inv.ctors[arity] = c.fn
		spec.Constructors = append(spec.Constructors, schema.Constructor{Params: c.params})
	}
	if len(cfg.factories) > 0 {
		spec.Factories = make(map[string]schema.Factory, len(cfg.factories))
		for name, fn := range cfg.factories {
			spec.Factories[name] = func(args []any) (any, error) {
				v, err := callFunc(fn, args)
				if err != nil {
					return nil, err
				}
				return addressable(v), nil
			}
		}
	}
	if spec.Converter == nil && convert.Supports(goType) {
		if c, err := convert.For(goType); err == nil {
			spec.Converter = c
		}
	}

	// Element types are described before the type itself is memoized; they
	// cannot refer back to a container type without a struct in between.
	switch goType.Kind() {
	case reflect.Slice:
		spec.ItemType = r.TypeOf(goType.Elem())
	case reflect.Map:
		spec.KeyType = r.TypeOf(goType.Key())
		spec.ItemType = r.TypeOf(goType.Elem())
	}

	t := schema.NewType(spec)
	r.described[goType] = t

	if goType.Kind() == reflect.Struct {
		r.describeMembers(t, goType)
	}
	return t
}

func (r *Registry) describeMembers(t *schema.Type, goType reflect.Type) {
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		name := field.Name
		var readOnly, ctorArg bool
		if tag, ok := field.Tag.Lookup("xaml"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, flag := range parts[1:] {
				switch strings.TrimSpace(flag) {
				case "readonly":
					readOnly = true
				case "ctor":
					ctorArg = true
				}
			}
		}

		t.AddMember(schema.MemberSpec{
			Name:                name,
			Type:                r.TypeOf(field.Type),
			ReadOnly:            readOnly,
			ConstructorArgument: ctorArg,
			Invoker:             &memberInvoker{field: field.Name},
		})
	}
}

func kindOf(goType reflect.Type) schema.TypeKind {
	switch goType.Kind() {
	case reflect.Slice:
		return schema.KindCollection
	case reflect.Map:
		return schema.KindDictionary
	case reflect.Struct:
		if reflect.PointerTo(goType).Implements(adderType) {
			return schema.KindCollection
		}
		return schema.KindObject
	default:
		return schema.KindPrimitive
	}
}

// baseType strips one level of pointer from struct types; instances of
// structs are always carried by pointer.
func baseType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return t.Elem()
	}
	return t
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
