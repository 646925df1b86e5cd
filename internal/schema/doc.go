// Package schema defines the format-agnostic type metadata consumed by the
// object writer: types, members, constructors, directives and the invoker
// interfaces used to construct instances and assign member values.
//
// The package knows nothing about how metadata is produced. The reflection
// backed provider lives in the reflectschema package; tests and other
// providers may assemble types by hand with NewType and AddMember.
//
// A Context is the lookup table producers use to resolve type names found in
// a document. Once populated it is safe for concurrent readers.
package schema
