package reflectschema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/objgraph/internal/schema"
)

// Option customizes how a Go type is described.
type Option func(*typeConfig)

type ctorConfig struct {
	fn     reflect.Value
	params []schema.Parameter
}

type typeConfig struct {
	name        string
	ctors       []ctorConfig
	factories   map[string]reflect.Value
	toMutable   reflect.Value
	toImmutable reflect.Value
	converter   schema.Converter
	nameAlias   string
}

// WithName overrides the document name of the type, which defaults to the Go
// type name.
func WithName(name string) Option {
	return func(c *typeConfig) { c.name = name }
}

// WithConstructor declares a constructor. fn must be a func whose parameters
// line up with params, each naming the member that supplies it. A trailing
// "?" marks a parameter optional; unsupplied optional parameters receive
// their zero value. fn may return T, *T, or either of them with an error.
func WithConstructor(fn any, params ...string) Option {
	return func(c *typeConfig) {
		fv := mustFunc(fn, "constructor")
		if fv.Type().NumIn() != len(params) {
			panic(fmt.Sprintf("constructor %s takes %d arguments but %d parameter names were given", fv.Type(), fv.Type().NumIn(), len(params)))
		}
		cc := ctorConfig{fn: fv}
		for _, p := range params {
			cc.params = append(cc.params, schema.Parameter{
				Member:   strings.TrimSuffix(p, "?"),
				Optional: strings.HasSuffix(p, "?"),
			})
		}
		c.ctors = append(c.ctors, cc)
	}
}

// WithFactory declares a named factory usable through x:FactoryMethod.
func WithFactory(name string, fn any) Option {
	return func(c *typeConfig) {
		if c.factories == nil {
			c.factories = make(map[string]reflect.Value)
		}
		c.factories[name] = mustFunc(fn, "factory")
	}
}

// WithStandIn marks the type immutable. toMutable receives the current
// instance (nil before construction) and returns a mutable builder whose
// exported fields mirror the type's members; toImmutable turns the builder
// into the final value.
func WithStandIn(toMutable, toImmutable any) Option {
	return func(c *typeConfig) {
		c.toMutable = mustFunc(toMutable, "toMutable")
		c.toImmutable = mustFunc(toImmutable, "toImmutable")
		if c.toMutable.Type().NumIn() != 1 || c.toImmutable.Type().NumIn() != 1 {
			panic("stand-in conversion functions must take exactly one argument")
		}
	}
}

// WithConverter installs a type converter used when a value written to a
// member of this type is not already an instance of it.
func WithConverter(fn func(value any) (any, error)) Option {
	return func(c *typeConfig) { c.converter = schema.ConverterFunc(fn) }
}

// WithNameProperty names the member that receives the x:Name value.
func WithNameProperty(member string) Option {
	return func(c *typeConfig) { c.nameAlias = member }
}

func mustFunc(fn any, what string) reflect.Value {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		panic(fmt.Sprintf("%s must be a function, got %T", what, fn))
	}
	if fv.Type().IsVariadic() {
		panic(fmt.Sprintf("%s must not be variadic", what))
	}
	out := fv.Type().NumOut()
	if out == 0 || out > 2 || (out == 2 && fv.Type().Out(1) != errorType) {
		panic(fmt.Sprintf("%s must return a value and an optional error, got %s", what, fv.Type()))
	}
	return fv
}
