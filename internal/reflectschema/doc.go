// Package reflectschema describes Go types as schema.Type values using the
// reflect package.
//
// The Registry is the glue between the names used in documents (e.g.
// "Point") and the compiled Go types that implement them. Exported struct
// fields become members; the `xaml` struct tag renames a member or marks it
// with the flags "ctor" (constructor argument) and "readonly". Constructors,
// factories, converters and immutable stand-ins are declared with Options
// because Go types carry no such metadata of their own.
//
// Struct instances are always handled by pointer so that members can be
// assigned in place. Slice members are exposed as pointers to the field,
// which lets items be appended to the existing container without
// reassigning the member.
package reflectschema
