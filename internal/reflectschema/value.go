package reflectschema

import (
	"fmt"
	"reflect"

	"github.com/vk/objgraph/internal/convert"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// valueFor adapts v so it can be stored in a location of type t. Pointers are
// dereferenced or taken as needed and loosely typed values are converted.
func valueFor(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch {
	case rt.AssignableTo(t):
		return rv, nil
	case rt.Kind() == reflect.Pointer && rt.Elem().AssignableTo(t):
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}
		return rv.Elem(), nil
	case t.Kind() == reflect.Pointer && rt.AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(rv)
		return p, nil
	case convert.Supports(t):
		converted, err := convert.Value(v, t)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(converted), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use value of type %T as %s", v, t)
}

// callFunc invokes fn with args adapted to its parameter types and unpacks a
// (value) or (value, error) result.
func callFunc(fn reflect.Value, args []any) (any, error) {
	ft := fn.Type()
	if ft.NumIn() != len(args) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", ft, ft.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := valueFor(a, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// addressable returns instances of struct types by pointer so their fields
// can be assigned after construction.
func addressable(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		return v
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.Interface()
}
