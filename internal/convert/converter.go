package convert

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter converts document values into one concrete Go type.
type Converter struct {
	target  reflect.Type
	ctyType cty.Type
}

// For returns a converter targeting t. Only scalar kinds and slices or maps
// of convertible kinds are supported; structs and interfaces have their own
// construction rules and are rejected.
func For(t reflect.Type) (*Converter, error) {
	if !Supports(t) {
		return nil, fmt.Errorf("no default conversion into Go type %s", t)
	}
	ty, err := gocty.ImpliedType(reflect.Zero(t).Interface())
	if err != nil {
		return nil, fmt.Errorf("cannot imply cty type for %s: %w", t, err)
	}
	return &Converter{target: t, ctyType: ty}, nil
}

// Supports reports whether For accepts t.
func Supports(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return Supports(t.Elem())
	case reflect.Map:
		return t.Key().Kind() == reflect.String && Supports(t.Elem())
	default:
		return false
	}
}

// Target returns the Go type values are converted into.
func (c *Converter) Target() reflect.Type { return c.target }

// ConvertFrom converts value into the converter's target type. Values that are
// already assignable are returned unchanged and nil becomes the zero value.
func (c *Converter) ConvertFrom(value any) (any, error) {
	if value == nil {
		return reflect.Zero(c.target).Interface(), nil
	}
	if reflect.TypeOf(value).AssignableTo(c.target) {
		return value, nil
	}

	src, err := ToCty(value)
	if err != nil {
		return nil, err
	}

	converted, err := convert.Convert(src, c.ctyType)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to required type %s: %w", src.Type().FriendlyName(), c.ctyType.FriendlyName(), err)
	}

	out := reflect.New(c.target)
	if err := gocty.FromCtyValue(converted, out.Interface()); err != nil {
		return nil, fmt.Errorf("cannot decode %s into %s: %w", c.ctyType.FriendlyName(), c.target, err)
	}
	return out.Elem().Interface(), nil
}

// Value is a convenience for one-off conversions into t.
func Value(value any, t reflect.Type) (any, error) {
	c, err := For(t)
	if err != nil {
		return nil, err
	}
	return c.ConvertFrom(value)
}
