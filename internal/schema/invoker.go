package schema

// TypeInvoker constructs instances of a type and manipulates its contents
// when the type is a collection or dictionary.
type TypeInvoker interface {
	// CreateInstance builds a new instance. A nil or empty args slice selects
	// the default constructor; otherwise the constructor whose arity matches
	// len(args) is used.
	CreateInstance(args []any) (any, error)

	// ToMutable returns a mutable stand-in for instance, which may be nil when
	// no instance exists yet. It returns nil, nil when the type has no
	// stand-in representation.
	ToMutable(instance any) (any, error)

	// ToImmutable converts a stand-in produced by ToMutable into the final
	// instance.
	ToImmutable(standIn any) (any, error)

	// AddToCollection appends item to collection.
	AddToCollection(collection, item any) error

	// AddToDictionary stores item under key in dictionary.
	AddToDictionary(dictionary, key, item any) error
}

// MemberInvoker reads and writes one member on a target instance.
type MemberInvoker interface {
	GetValue(target any) (any, error)
	SetValue(target, value any) error
}

// Converter turns a value of arbitrary shape into a value of the converter's
// target type. It is the type-converter hook used for string attribute values
// and for numeric widening coming from loosely typed documents.
type Converter interface {
	ConvertFrom(value any) (any, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(value any) (any, error)

// ConvertFrom calls f(value).
func (f ConverterFunc) ConvertFrom(value any) (any, error) { return f(value) }

// Factory is a named static construction method registered on a type.
type Factory func(args []any) (any, error)
