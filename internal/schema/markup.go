package schema

// MarkupExtension is implemented by objects that stand for another value.
// When the writer closes such an object it attaches the provided value
// instead of the extension itself.
type MarkupExtension interface {
	ProvideValue(sp ServiceProvider) (any, error)
}

// NameResolver resolves identifiers registered through the x:Name directive.
type NameResolver interface {
	Resolve(name string) (any, bool)
}

// ServiceProvider exposes the writer context a markup extension is evaluated
// in.
type ServiceProvider interface {
	// TargetObject is the object whose member receives the provided value;
	// nil when the extension is the root.
	TargetObject() any
	// TargetMember is the member receiving the provided value.
	TargetMember() *Member
	Names() NameResolver
	SchemaContext() *Context
}
