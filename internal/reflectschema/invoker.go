package reflectschema

import (
	"fmt"
	"reflect"
)

// Adder is implemented by custom collection types that accept items one at a
// time.
type Adder interface {
	Add(item any) error
}

var adderType = reflect.TypeOf((*Adder)(nil)).Elem()

// typeInvoker constructs and fills instances of one Go type.
type typeInvoker struct {
	goType      reflect.Type
	ctors       map[int]reflect.Value
	toMutable   reflect.Value
	toImmutable reflect.Value
}

func (ti *typeInvoker) CreateInstance(args []any) (any, error) {
	if fn, ok := ti.ctors[len(args)]; ok {
		v, err := callFunc(fn, args)
		if err != nil {
			return nil, err
		}
		return addressable(v), nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("type %s has no constructor taking %d arguments", ti.goType, len(args))
	}

	switch ti.goType.Kind() {
	case reflect.Struct:
		return reflect.New(ti.goType).Interface(), nil
	case reflect.Slice:
		p := reflect.New(ti.goType)
		p.Elem().Set(reflect.MakeSlice(ti.goType, 0, 0))
		return p.Interface(), nil
	case reflect.Map:
		return reflect.MakeMap(ti.goType).Interface(), nil
	default:
		return reflect.Zero(ti.goType).Interface(), nil
	}
}

func (ti *typeInvoker) ToMutable(instance any) (any, error) {
	if !ti.toMutable.IsValid() {
		return nil, nil
	}
	return callFunc(ti.toMutable, []any{instance})
}

func (ti *typeInvoker) ToImmutable(standIn any) (any, error) {
	if !ti.toImmutable.IsValid() {
		return standIn, nil
	}
	v, err := callFunc(ti.toImmutable, []any{standIn})
	if err != nil {
		return nil, err
	}
	return addressable(v), nil
}

func (ti *typeInvoker) AddToCollection(collection, item any) error {
	if a, ok := collection.(Adder); ok {
		return a.Add(item)
	}
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("cannot add items to %T: not a pointer to a slice", collection)
	}
	slice := rv.Elem()
	iv, err := valueFor(item, slice.Type().Elem())
	if err != nil {
		return fmt.Errorf("collection item: %w", err)
	}
	slice.Set(reflect.Append(slice, iv))
	return nil
}

func (ti *typeInvoker) AddToDictionary(dictionary, key, item any) error {
	rv := reflect.ValueOf(dictionary)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("cannot add entries to %T: not a map", dictionary)
	}
	if rv.IsNil() {
		return fmt.Errorf("cannot add entries to a nil %s", rv.Type())
	}
	kv, err := valueFor(key, rv.Type().Key())
	if err != nil {
		return fmt.Errorf("dictionary key: %w", err)
	}
	iv, err := valueFor(item, rv.Type().Elem())
	if err != nil {
		return fmt.Errorf("dictionary value for key '%v': %w", key, err)
	}
	rv.SetMapIndex(kv, iv)
	return nil
}

// memberInvoker reads and writes a struct field by name. The field is looked
// up on the target's own type so the same member works on a stand-in builder
// that mirrors the field names.
type memberInvoker struct {
	field string
}

func (mi *memberInvoker) lookup(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("target %T is not a non-nil pointer", target)
	}
	sv := rv.Elem()
	if sv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("target %T is not a struct", target)
	}
	f := sv.FieldByName(mi.field)
	if !f.IsValid() {
		return reflect.Value{}, fmt.Errorf("type %s has no field '%s'", sv.Type(), mi.field)
	}
	if !f.CanSet() {
		return reflect.Value{}, fmt.Errorf("field '%s' of %s is not settable", mi.field, sv.Type())
	}
	return f, nil
}

// GetValue returns slices and structs by address so callers can fill them in
// place; other kinds are returned by value.
func (mi *memberInvoker) GetValue(target any) (any, error) {
	f, err := mi.lookup(target)
	if err != nil {
		return nil, err
	}
	switch f.Kind() {
	case reflect.Slice, reflect.Struct:
		return f.Addr().Interface(), nil
	default:
		return f.Interface(), nil
	}
}

func (mi *memberInvoker) SetValue(target, value any) error {
	f, err := mi.lookup(target)
	if err != nil {
		return err
	}
	v, err := valueFor(value, f.Type())
	if err != nil {
		return err
	}
	f.Set(v)
	return nil
}
