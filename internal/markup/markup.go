// Package markup provides the built-in markup extensions. They are
// registered in the directive namespace so documents can use them next to
// their own types.
package markup

import (
	"fmt"

	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
)

// Null provides a nil value.
type Null struct{}

func (*Null) ProvideValue(schema.ServiceProvider) (any, error) { return nil, nil }

// Reference provides the object registered under Name with x:Name. Only
// objects closed before the reference can be resolved.
type Reference struct {
	Name string `xaml:",ctor"`
}

func NewReference(name string) Reference { return Reference{Name: name} }

func (r *Reference) ProvideValue(sp schema.ServiceProvider) (any, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("reference without a name")
	}
	v, ok := sp.Names().Resolve(r.Name)
	if !ok {
		return nil, fmt.Errorf("no object named '%s' is in scope", r.Name)
	}
	return v, nil
}

// TypeName provides the qualified name of a registered type as a string,
// validating that the type exists.
type TypeName struct {
	Name string `xaml:",ctor"`
}

func NewTypeName(name string) TypeName { return TypeName{Name: name} }

func (t *TypeName) ProvideValue(sp schema.ServiceProvider) (any, error) {
	typ, err := sp.SchemaContext().Lookup(t.Name)
	if err != nil {
		return nil, err
	}
	return typ.QName().String(), nil
}

// Module implements the reflectschema.Module interface.
type Module struct{}

func (m *Module) Register(r *reflectschema.Registry) {
	r.Register(schema.DirectiveNamespace, Null{})
	r.Register(schema.DirectiveNamespace, Reference{},
		reflectschema.WithConstructor(NewReference, "Name"),
	)
	r.Register(schema.DirectiveNamespace, TypeName{},
		reflectschema.WithName("Type"),
		reflectschema.WithConstructor(NewTypeName, "Name"),
	)
}
